package command

import (
	"fmt"
	"log"
	"strings"

	"radio-domme/internal/bot"
	"radio-domme/pkg/util"

	"github.com/bwmarrin/discordgo"
)

type ListCommand struct {
	Bot bot.RadioBot
}

func (c *ListCommand) Name() string        { return "radio-list" }
func (c *ListCommand) Description() string { return "Show available stations" }
func (c *ListCommand) Group() string       { return "radio" }
func (c *ListCommand) Category() string    { return "📻 Radio" }

func (c *ListCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ListCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	var sb strings.Builder
	for _, st := range c.Bot.Stations().List() {
		sb.WriteString("• ")
		sb.WriteString(st.Name)
		sb.WriteString("\n")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📻 Stations",
		Description: sb.String(),
		Color:       bot.EmbedColor,
	}

	if slash.Storage != nil {
		history, err := slash.Storage.FetchStationHistory(slash.Event.GuildID)
		if err != nil {
			log.Printf("[WARN] Failed to fetch station history: %v", err)
		} else if len(history) > 0 {
			var hb strings.Builder
			for _, h := range history {
				hb.WriteString(fmt.Sprintf("%s — %s\n",
					h.StationName, util.FormatDateTpl(h.Datetime.UnixMilli(), "DD.MM.YYYY hh:mm")))
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Recently played",
				Value: hb.String(),
			})
		}
	}

	return bot.RespondEmbedEphemeral(slash.Session, slash.Event, embed)
}
