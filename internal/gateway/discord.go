package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const (
	reactionPageSize = 100
	memberPageSize   = 1000
)

// Discord is the discordgo-backed gateway implementation.
type Discord struct {
	session *discordgo.Session
	guildID string
	logger  *slog.Logger
}

var _ Session = (*Discord)(nil)

// NewDiscord creates a gateway client for the given bot token and guild. The
// socket is not opened until Connect.
func NewDiscord(token, guildID string, logger *slog.Logger) (*Discord, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages
	return &Discord{session: s, guildID: guildID, logger: logger}, nil
}

// Connect registers the notification handlers and opens the gateway socket.
func (d *Discord) Connect(h Handlers) error {
	d.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		d.logger.Info("discord gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
		if h.Ready != nil {
			h.Ready()
		}
	})
	d.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.GuildID != d.guildID {
			return
		}
		if d.isBot(r.UserID, r.Member) {
			return
		}
		if h.ReactionAdded == nil {
			return
		}
		rx := Reaction{
			MessageID: r.MessageID,
			ChannelID: r.ChannelID,
			UserID:    r.UserID,
			Emoji:     r.Emoji.Name,
		}
		if r.Member != nil && r.Member.User != nil {
			rx.Username = r.Member.User.Username
			rx.DisplayName = displayName(r.Member.User)
		}
		h.ReactionAdded(rx)
	})
	d.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
		if r.GuildID != d.guildID {
			return
		}
		if d.isBot(r.UserID, nil) {
			return
		}
		if h.ReactionRemoved == nil {
			return
		}
		h.ReactionRemoved(Reaction{
			MessageID: r.MessageID,
			ChannelID: r.ChannelID,
			UserID:    r.UserID,
			Emoji:     r.Emoji.Name,
		})
	})
	d.session.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.GuildID != d.guildID || m.User == nil || m.User.Bot {
			return
		}
		if h.MemberJoined == nil {
			return
		}
		h.MemberJoined(Member{
			UserID:      m.User.ID,
			Username:    m.User.Username,
			DisplayName: displayName(m.User),
		})
	})
	d.session.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
		if m.GuildID != d.guildID || m.User == nil || m.User.Bot {
			return
		}
		if h.MemberLeft == nil {
			return
		}
		h.MemberLeft(m.User.ID)
	})

	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	return nil
}

// Close shuts down the gateway socket.
func (d *Discord) Close() error {
	return d.session.Close()
}

func (d *Discord) SendChannelMessage(ctx context.Context, channelID, content string) error {
	_, err := d.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send channel message: %w", err)
	}
	return nil
}

func (d *Discord) SendDirectMessage(ctx context.Context, userID, content string) error {
	ch, err := d.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open dm channel for %s: %w", userID, err)
	}
	if _, err := d.session.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send dm to %s: %w", userID, err)
	}
	return nil
}

func (d *Discord) ReactionUserIDs(ctx context.Context, channelID, messageID, emoji string) ([]string, error) {
	var ids []string
	after := ""
	for {
		users, err := d.session.MessageReactions(channelID, messageID, emoji, reactionPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list reactions on %s: %w", messageID, err)
		}
		for _, u := range users {
			if u.Bot {
				continue
			}
			ids = append(ids, u.ID)
		}
		if len(users) < reactionPageSize {
			return ids, nil
		}
		after = users[len(users)-1].ID
	}
}

func (d *Discord) GuildMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	after := ""
	for {
		page, err := d.session.GuildMembers(d.guildID, after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list guild members: %w", err)
		}
		for _, m := range page {
			if m.User == nil || m.User.Bot {
				continue
			}
			members = append(members, Member{
				UserID:      m.User.ID,
				Username:    m.User.Username,
				DisplayName: displayName(m.User),
			})
		}
		if len(page) < memberPageSize {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// isBot reports whether the reactor is an automation account. Reaction
// dispatches do not always carry the member (removals never do), so the
// state cache and finally the REST API resolve the rest.
func (d *Discord) isBot(userID string, member *discordgo.Member) bool {
	if self := d.session.State.User; self != nil && self.ID == userID {
		return true
	}
	if member != nil && member.User != nil {
		return member.User.Bot
	}
	if m, err := d.session.State.Member(d.guildID, userID); err == nil && m.User != nil {
		return m.User.Bot
	}
	u, err := d.session.User(userID)
	if err != nil {
		d.logger.Warn("reactor lookup failed", "user", userID, "error", err)
		return false
	}
	return u.Bot
}

// displayName prefers the global display name and falls back to the username.
func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
