package bot

import (
	"radio-domme/internal/radio"
	"radio-domme/internal/recognize"
	"radio-domme/internal/station"
	"radio-domme/pkg/jobmgr"
)

// RadioBot is the narrow surface commands use to reach the running bot.
type RadioBot interface {
	Stations() *station.Directory
	Radio() *radio.Manager
	Recognizer() *recognize.Flow
	Jobs() *jobmgr.Manager
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
}

// VoiceState holds minimal voice channel state for a user.
type VoiceState struct {
	ChannelID string
	UserID    string
}
