// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
//
// Its main consumer is the payments adapter, which stamps every checkout
// session create with a fresh idempotency key so a retried API call cannot
// mint a second session.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 21

// IdempotencyKey returns a new payment idempotency key.
func IdempotencyKey() (string, error) {
	return GenerateWithPrefix("pay-")
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
