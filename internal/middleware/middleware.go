// Package middleware wraps commands with cross-cutting behavior (guild-only
// enforcement, command logging) without the commands knowing about it.
package middleware

import (
	"radio-domme/internal/command"

	"github.com/bwmarrin/discordgo"
)

type wrappedCommand struct {
	command.Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// SlashDefinition is forwarded so wrapping never hides a command from
// slash registration.
func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(command.SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}
