// Package gateway adapts the Discord gateway for the RSVP core.
//
// Core components depend on the Session interface and the callback types
// here; the discordgo-backed implementation lives in discord.go. Automation
// accounts are filtered at this boundary so the core never sees bot
// reactions or bot members.
package gateway

import "context"

// Reaction is a reaction-add or reaction-remove notification.
type Reaction struct {
	MessageID   string
	ChannelID   string
	UserID      string // external (Discord) user id of the reactor
	Username    string // empty on removals
	DisplayName string // empty on removals
	Emoji       string
}

// Member is a guild member notification or roster entry.
type Member struct {
	UserID      string
	Username    string
	DisplayName string
}

// Handlers holds the callbacks invoked for gateway notifications. Nil
// callbacks are skipped. Each callback runs on the gateway's dispatch
// goroutine; handlers for different notifications may run concurrently.
type Handlers struct {
	Ready           func()
	ReactionAdded   func(r Reaction)
	ReactionRemoved func(r Reaction)
	MemberJoined    func(m Member)
	MemberLeft      func(userID string)
}

// Session is the outbound gateway surface used by the core components.
type Session interface {
	// SendChannelMessage posts content to a channel or thread.
	SendChannelMessage(ctx context.Context, channelID, content string) error
	// SendDirectMessage delivers content to a user's DM channel. Fails when
	// the recipient has direct messages disabled; callers treat that as
	// non-fatal.
	SendDirectMessage(ctx context.Context, userID, content string) error
	// ReactionUserIDs returns the external user ids currently holding the
	// given reaction on a message, excluding automation accounts.
	ReactionUserIDs(ctx context.Context, channelID, messageID, emoji string) ([]string, error)
	// GuildMembers returns the full member roster, excluding automation
	// accounts.
	GuildMembers(ctx context.Context) ([]Member, error)
}
