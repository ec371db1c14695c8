package discord

import (
	"fmt"
	"log"

	"radio-domme/internal/bot"
	"radio-domme/internal/radio"
)

// FindUserVoiceState finds the voice state of a user.
func (b *Bot) FindUserVoiceState(guildID, userID string) (*bot.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return &bot.VoiceState{
				ChannelID: vs.ChannelID,
				UserID:    vs.UserID,
			}, nil
		}
	}
	return nil, fmt.Errorf("user not in any voice channel")
}

// joinVoice connects to a guild voice channel (unmuted, deafened).
func (b *Bot) joinVoice(guildID, channelID string) (radio.VoiceConn, error) {
	vc, err := b.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, err
	}
	log.Printf("[Discord] Joined voice channel %s on guild %s", channelID, guildID)
	return vc, nil
}
