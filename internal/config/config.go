package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,required"`
	ClientID      string `env:"CLIENT_ID,required"`
	AuddAPIKey    string `env:"AUDD_API_KEY,required"`
	StoragePath   string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	FFmpegPath    string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	SampleDir     string `env:"SAMPLE_DIR" envDefault:"temp"`
	ProbeStations bool   `env:"PROBE_STATIONS" envDefault:"false"`
}

// New reads configuration from the environment once at startup.
// Missing required values are a fatal startup error, not a runtime one.
func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatal("Config error: ", err)
	}
	return cfg
}
