package discord

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"radio-domme/internal/bot"
	"radio-domme/internal/command"
	"radio-domme/internal/config"
	"radio-domme/internal/radio"
	"radio-domme/internal/recognize"
	"radio-domme/internal/station"
	"radio-domme/internal/storage"
	"radio-domme/internal/transcoder"
	"radio-domme/pkg/jobmgr"
	"radio-domme/pkg/util"

	"github.com/bwmarrin/discordgo"
)

// Bot is the Discord radio bot: one process, one station directory, one
// session table shared by every guild.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	stations *station.Directory
	manager  *radio.Manager
	flow     *recognize.Flow
	jobs     *jobmgr.Manager
	tc       *transcoder.Transcoder
}

// NewBot wires the bot's collaborators together and registers its commands.
func NewBot(cfg *config.Config, store *storage.Storage) *Bot {
	b := &Bot{
		cfg:      cfg,
		storage:  store,
		stations: station.Default(),
		tc:       transcoder.New(cfg.FFmpegPath),
		jobs: jobmgr.NewManager(func(msg string) {
			log.Println("[Jobs]", msg)
		}),
	}

	b.flow = recognize.NewFlow(b.tc.Capture, recognize.NewClient(cfg.AuddAPIKey), cfg.SampleDir)
	b.manager = radio.NewManager(radio.Deps{
		Join: b.joinVoice,
		StartPipe: func(url string) (radio.Pipe, error) {
			return b.tc.Stream(url)
		},
		NewSink: func(conn radio.VoiceConn) radio.Sink {
			return newVoiceSink(conn.(*discordgo.VoiceConnection))
		},
	})

	b.registerRadioCommands()
	return b
}

// Stations returns the built-in station directory.
func (b *Bot) Stations() *station.Directory { return b.stations }

// Radio returns the per-guild session table.
func (b *Bot) Radio() *radio.Manager { return b.manager }

// Recognizer returns the track identification flow.
func (b *Bot) Recognizer() *recognize.Flow { return b.flow }

// Jobs returns the async job manager.
func (b *Bot) Jobs() *jobmgr.Manager { return b.jobs }

// Run opens the gateway session and blocks until ctx is cancelled, then
// tears down every live session before returning.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	if b.cfg.ProbeStations {
		go b.stations.Probe(ctx, &http.Client{Timeout: 10 * time.Second}, 4)
	}

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.jobs.StopAll()
	b.manager.TerminateAll()
	return nil
}

// onReady is called when the bot is ready.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	guildIDs := make([]string, 0, len(r.Guilds))
	for _, g := range r.Guilds {
		guildIDs = append(guildIDs, g.ID)
	}

	if err := util.Parallel(guildIDs, 4, func(_ context.Context, guildID string) error {
		if err := b.registerSlashCommands(guildID); err != nil {
			log.Printf("[ERR] Error registering slash commands for guild %s: %v", guildID, err)
		}
		return nil
	}); err != nil {
		log.Println("[ERR] Slash command registration:", err)
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", botInfo.Username)
}

// onGuildCreate is called when the bot joins a guild.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)
	if err := b.registerSlashCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
	}
}

// onInteractionCreate routes slash command interactions to the registry.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmdName := i.ApplicationCommandData().Name
	cmd, ok := command.Get(cmdName)
	if !ok {
		log.Printf("[WARN] Unknown command: %s", cmdName)
		return
	}

	ctx := &command.SlashContext{
		Session: s,
		Event:   i,
		Storage: b.storage,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Println("[ERR] Error running slash command:", err)
		_ = bot.RespondEmbedEphemeral(s, i, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Error running slash command: %v", err),
		})
	}
}
