package middleware

import (
	"radio-domme/internal/bot"
	"radio-domme/internal/command"
)

// WithGuildOnly wraps a command to enforce guild-only access.
func WithGuildOnly(cmd command.Command) command.Command {
	return &wrappedCommand{
		Command: cmd,
		wrap: func(ctx interface{}) error {
			if v, ok := ctx.(*command.SlashContext); ok && v.Event.GuildID == "" {
				return bot.RespondEphemeral(v.Session, v.Event,
					"You must be in a server to use this command.")
			}
			return cmd.Run(ctx)
		},
	}
}
