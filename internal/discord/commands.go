package discord

import (
	"log"

	"radio-domme/internal/command"
	"radio-domme/internal/middleware"

	"github.com/bwmarrin/discordgo"
)

// registerRadioCommands builds the command set. Commands need the live bot
// instance, so registration happens here rather than in package init.
func (b *Bot) registerRadioCommands() {
	for _, c := range []command.Command{
		&command.PlayCommand{Bot: b},
		&command.StopCommand{Bot: b},
		&command.ListCommand{Bot: b},
		&command.IdentifyCommand{Bot: b},
	} {
		command.Register(
			middleware.WithCommandLogger(
				middleware.WithGuildOnly(c),
			),
		)
	}
}

// registerSlashCommands bulk-overwrites the guild's slash commands with the
// current command set.
func (b *Bot) registerSlashCommands(guildID string) error {
	appID := b.cfg.ClientID
	if appID == "" {
		appID = b.dg.State.User.ID
	}

	var defs []*discordgo.ApplicationCommand
	for _, c := range command.All() {
		if sp, ok := c.(command.SlashProvider); ok {
			if def := sp.SlashDefinition(); def != nil {
				defs = append(defs, def)
			}
		}
	}

	if _, err := b.dg.ApplicationCommandBulkOverwrite(appID, guildID, defs); err != nil {
		return err
	}
	log.Printf("[INFO] [%s] Registered %d slash commands", guildID, len(defs))
	return nil
}
