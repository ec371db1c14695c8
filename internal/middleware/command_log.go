package middleware

import (
	"log"
	"time"

	"radio-domme/internal/command"
	"radio-domme/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// WithCommandLogger wraps a command to record its execution in the guild's
// command history.
func WithCommandLogger(cmd command.Command) command.Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			err := cmd.Run(ctx)

			if v, ok := ctx.(*command.SlashContext); ok && v.Storage != nil {
				user := resolveUser(v.Session, v.Event)
				if lerr := logCommand(v.Session, v.Storage, v.Event, user, cmd.Name()); lerr != nil {
					log.Printf("[WARN] Failed to log command /%s: %v", cmd.Name(), lerr)
				}
			}
			return err
		},
	}
}

func logCommand(s *discordgo.Session, store *storage.Storage, e *discordgo.InteractionCreate, user *discordgo.User, name string) error {
	record := storage.CommandHistoryRecord{
		ChannelID: e.ChannelID,
		UserID:    user.ID,
		Username:  user.Username,
		Command:   name,
		Datetime:  time.Now(),
	}
	if ch, err := s.State.Channel(e.ChannelID); err == nil {
		record.ChannelName = ch.Name
	}
	if g, err := s.State.Guild(e.GuildID); err == nil {
		record.GuildName = g.Name
	}
	return store.AppendCommandToHistory(e.GuildID, record)
}

// resolveUser safely retrieves the user object from an InteractionCreate event.
func resolveUser(s *discordgo.Session, e *discordgo.InteractionCreate) *discordgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	if e.User != nil {
		if u, err := s.User(e.User.ID); err == nil {
			return u
		}
		return e.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}
