package discord

import (
	"log"

	"radio-domme/internal/radio"

	"github.com/bwmarrin/discordgo"
)

// onVoiceStateUpdate watches the session's voice channel and tears the
// session down once the last human listener leaves. Playing to an empty
// room keeps an ffmpeg process alive for nobody.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	sess, ok := b.manager.Current(vs.GuildID)
	if !ok {
		return
	}

	channelID := sess.ChannelID()
	leftOurChannel := vs.BeforeUpdate != nil && vs.BeforeUpdate.ChannelID == channelID
	if vs.ChannelID != channelID && !leftOurChannel {
		return
	}

	guild, err := s.State.Guild(vs.GuildID)
	if err != nil {
		return
	}

	listeners := 0
	for _, gvs := range guild.VoiceStates {
		if gvs.ChannelID != channelID {
			continue
		}
		if gvs.UserID == s.State.User.ID {
			continue
		}
		if m, err := s.State.Member(vs.GuildID, gvs.UserID); err == nil && m.User != nil && m.User.Bot {
			continue
		}
		listeners++
	}

	if listeners == 0 {
		log.Printf("[Discord] %s voice channel %s is empty, stopping radio", vs.GuildID, channelID)
		sess.Terminate(radio.ReasonEmptyChannel, nil)
	}
}
