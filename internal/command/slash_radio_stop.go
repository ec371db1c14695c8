package command

import (
	"errors"
	"fmt"

	"radio-domme/internal/bot"
	"radio-domme/internal/radio"

	"github.com/bwmarrin/discordgo"
)

type StopCommand struct {
	Bot bot.RadioBot
}

func (c *StopCommand) Name() string        { return "radio-stop" }
func (c *StopCommand) Description() string { return "Stop the radio and leave the voice channel" }
func (c *StopCommand) Group() string       { return "radio" }
func (c *StopCommand) Category() string    { return "📻 Radio" }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	session := slash.Session
	event := slash.Event

	if err := c.Bot.Radio().Stop(event.GuildID); err != nil {
		if errors.Is(err, radio.ErrNoSession) {
			return bot.RespondEphemeral(session, event, "📻 Nothing is playing here.")
		}
		return bot.RespondEphemeral(session, event, fmt.Sprintf("📻 Error: %v", err))
	}

	return bot.Respond(session, event, "📻 Radio stopped.")
}
