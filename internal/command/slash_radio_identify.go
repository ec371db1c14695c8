package command

import (
	"context"
	"fmt"

	"radio-domme/internal/bot"
	"radio-domme/internal/recognize"

	"github.com/bwmarrin/discordgo"
)

type IdentifyCommand struct {
	Bot bot.RadioBot
}

func (c *IdentifyCommand) Name() string        { return "radio-identify" }
func (c *IdentifyCommand) Description() string { return "Name the track playing right now" }
func (c *IdentifyCommand) Group() string       { return "radio" }
func (c *IdentifyCommand) Category() string    { return "📻 Radio" }

func (c *IdentifyCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *IdentifyCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	session := slash.Session
	event := slash.Event
	guildID := event.GuildID

	sess, ok := c.Bot.Radio().Current(guildID)
	if !ok {
		return bot.RespondEphemeral(session, event, "🎧 Nothing is playing, nothing to identify.")
	}
	stationName := sess.Station().Name
	streamURL := sess.Station().URL

	if err := bot.RespondDeferred(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	// One identification per guild at a time; the job name is the lock.
	err := c.Bot.Jobs().StartAsync("identify:"+guildID, func(jobCtx context.Context) error {
		res, err := c.Bot.Recognizer().Identify(jobCtx, streamURL, func(stage recognize.Stage) {
			switch stage {
			case recognize.StageListening:
				_ = bot.EditResponse(session, event, "🎧 Listening to the stream for a few seconds...")
			case recognize.StageSearching:
				_ = bot.EditResponse(session, event, "🔎 Searching for a match...")
			}
		})
		if err != nil {
			_ = bot.EditResponse(session, event, fmt.Sprintf("🎧 Identification failed: %v", err))
			return err
		}
		if res == nil {
			_ = bot.EditResponse(session, event, "🎧 No match. The track stays a mystery.")
			return nil
		}
		return bot.EditResponseEmbed(session, event, resultEmbed(res, stationName))
	})
	if err != nil {
		return bot.EditResponse(session, event, "🎧 An identification is already running for this server.")
	}
	return nil
}

func resultEmbed(res *recognize.Result, stationName string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       res.Title,
		Description: fmt.Sprintf("by **%s**", res.Artist),
		URL:         res.SongLink,
		Color:       bot.EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "heard on " + stationName},
	}
	if res.Album != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Album", Value: res.Album, Inline: true,
		})
	}
	if res.ReleaseDate != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Released", Value: res.ReleaseDate, Inline: true,
		})
	}
	if art := res.ArtworkURL(500, 500); art != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: art}
	}
	return embed
}
