package model

import "time"

// RoleLeft marks a user who left the guild. Users are never deleted; a
// departed member keeps their RSVP and payment history and the tag is
// cleared if they rejoin.
const RoleLeft = "Left"

// User is a guild member known to the service. Rows are created lazily on
// the first observed interaction (member join, reaction, or member sync).
type User struct {
	ID            int64     `json:"id"`
	DiscordUserID string    `json:"discord_user_id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name,omitempty"`
	Role          string    `json:"role,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Departed reports whether the user has left the guild.
func (u *User) Departed() bool {
	return u.Role == RoleLeft
}

// Mention returns the Discord mention string for the user.
func (u *User) Mention() string {
	return "<@" + u.DiscordUserID + ">"
}
