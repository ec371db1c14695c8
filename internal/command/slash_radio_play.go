package command

import (
	"errors"
	"fmt"
	"log"
	"time"

	"radio-domme/internal/bot"
	"radio-domme/internal/radio"
	"radio-domme/internal/storage"

	"github.com/bwmarrin/discordgo"
)

type PlayCommand struct {
	Bot bot.RadioBot
}

func (c *PlayCommand) Name() string        { return "radio-play" }
func (c *PlayCommand) Description() string { return "Tune into a radio station" }
func (c *PlayCommand) Group() string       { return "radio" }
func (c *PlayCommand) Category() string    { return "📻 Radio" }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "station",
				Description: "Station name or part of it",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	session := slash.Session
	event := slash.Event
	guildID := event.GuildID
	member := event.Member

	var query string
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "station" {
			query = opt.StringValue()
		}
	}

	st, found := c.Bot.Stations().Find(query)
	if !found {
		return bot.RespondEphemeral(session, event,
			fmt.Sprintf("📻 No station matches %q. See /radio-list for what's on air.", query))
	}

	voiceState, err := c.Bot.FindUserVoiceState(guildID, member.User.ID)
	if err != nil {
		return bot.RespondEphemeral(session, event, "📻 Join a voice channel first, then ask again.")
	}

	// Respond immediately to avoid 404 (deferred = "thinking…")
	if err := bot.RespondDeferred(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	sess, err := c.Bot.Radio().Play(guildID, voiceState.ChannelID, st)
	if err != nil {
		if errors.Is(err, radio.ErrSuperseded) {
			// A newer play request took over; this reply still has to resolve.
			return bot.EditResponse(session, event, "📻 A newer station request took over.")
		}
		return bot.EditResponse(session, event, fmt.Sprintf("📻 Error: %v", err))
	}

	if slash.Storage != nil {
		if herr := slash.Storage.AppendStationToHistory(guildID, storage.StationPlayRecord{
			StationName: st.Name,
			StationURL:  st.URL,
			Username:    member.User.Username,
			Datetime:    time.Now(),
		}); herr != nil {
			log.Printf("[WARN] Failed to record station history: %v", herr)
		}
	}

	go watchSession(session, event, sess)
	return nil
}

// watchSession resolves the deferred reply as the session moves through its
// lifecycle: a confirmation once audio flows, a notice if it dies on its own.
// The deferred response is always edited at least once, even when the session
// never reaches Playing.
func watchSession(s *discordgo.Session, e *discordgo.InteractionCreate, sess *radio.Session) {
	playing := false
	for u := range sess.Updates() {
		reply, ok := planSessionReply(sess.Station().Name, u, playing)
		if u.Status == radio.StatusPlaying {
			playing = true
		}
		if !ok {
			continue
		}
		if reply.edit {
			_ = bot.EditResponse(s, e, reply.message)
		} else {
			_ = bot.FollowupEphemeral(s, e, reply.message)
		}
	}
}

// sessionReply is how one lifecycle update resolves the command's reply:
// edit the still-deferred response, or follow up on an already-edited one.
type sessionReply struct {
	message string
	edit    bool
}

func planSessionReply(stationName string, u radio.Update, playing bool) (sessionReply, bool) {
	switch u.Status {
	case radio.StatusPlaying:
		return sessionReply{
			message: fmt.Sprintf("📻 Now playing **%s**", stationName),
			edit:    true,
		}, true

	case radio.StatusTerminated:
		var msg string
		switch u.Reason {
		case radio.ReasonStreamEnded, radio.ReasonPlaybackError, radio.ReasonTranscoderExit:
			msg = fmt.Sprintf("📻 **%s** went silent (%s).", stationName, u.Reason)
			if u.Err != nil {
				msg = fmt.Sprintf("%s\n`%v`", msg, u.Err)
			}
		default:
			if playing {
				// Normal stop or replacement after playback started: the
				// stop/play command that caused it already answered the user.
				return sessionReply{}, false
			}
			msg = fmt.Sprintf("📻 **%s** stopped before playing (%s).", stationName, u.Reason)
		}
		return sessionReply{message: msg, edit: !playing}, true
	}
	return sessionReply{}, false
}
