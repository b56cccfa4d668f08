package trackbot

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	humanize "github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/exercism/trackbot/internal/cfg"
	"github.com/exercism/trackbot/internal/modmessage"
	"github.com/exercism/trackbot/internal/trackreact"
)

var (
	// discordgo session
	discord *discordgo.Session

	// Config struct to pass around
	conf *cfg.Config

	// Start time for uptime calculation
	startTime = time.Now()
)

func onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Infoln("Received READY payload.")
}

func scontains(key string, options ...string) bool {
	for _, item := range options {
		if item == key {
			return true
		}
	}
	return false
}

func displayBotStats(cid string) {
	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	uptime := time.Since(startTime).Round(time.Second)
	startDateTime := startTime.Format("2006-01-02 15:04:05")

	statusMessage := fmt.Sprintf(`Trackbot:   %s
Discordgo:  %s
Go:         %s

Memory:
  Alloc:    %s
  Sys:      %s

Tasks:      %d
Servers:    %d

Uptime:     %s (since %s)
`, version, discordgo.VERSION, runtime.Version(),
		humanize.Bytes(stats.Alloc), humanize.Bytes(stats.Sys),
		runtime.NumGoroutine(), len(discord.State.Ready.Guilds), uptime, startDateTime)

	_, err := discord.ChannelMessageSend(cid, "```"+statusMessage+"```")
	if err != nil {
		log.Errorln("Could not send channel message.", err)
	}
}

// Handles bot operator messages: mention the bot as the owner with a
// control word to poke it.
func handleBotControlMessages(s *discordgo.Session, m *discordgo.MessageCreate, parts []string) {
	if len(parts) > 1 {
		if scontains(parts[1], "status") {
			displayBotStats(m.ChannelID)
		}
		if scontains(parts[1], "sync") {
			modmessage.Sync(s)
		}
	}
}

func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || len(m.Mentions) == 0 {
		return
	}

	// Control messages come from the owner and nobody else.
	if m.Author.ID != conf.Discord.OwnerID {
		return
	}

	mentioned := false
	for _, mention := range m.Mentions {
		mentioned = (mention.ID == s.State.Ready.User.ID)
		if mentioned {
			break
		}
	}
	if !mentioned {
		return
	}

	msg := strings.Replace(m.ContentWithMentionsReplaced(), s.State.Ready.User.Username, "username", 1)
	parts := strings.Split(strings.ToLower(msg), " ")
	handleBotControlMessages(s, m, parts)
}

// Start obviously
func Start() {
	LogVersion()
	conf = cfg.LoadConfigFile()

	if conf.Debug {
		log.SetLevel(log.DebugLevel)
	}

	// Start web status server if a valid port is provided
	if conf.Web.Port >= 1 {
		log.Infoln("Starting web status server on port", conf.Web.Port)
		go startWebServer(conf)
	} else {
		log.Infoln("No web port configured. Skipping web status server start.")
	}

	// Create a discord session
	log.Infoln("Starting discord session...")
	var err error
	discord, err = discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Fatal("Failed to create discord session")
		return
	}

	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildEmojis |
		discordgo.IntentsMessageContent

	discord.AddHandler(onReady)
	discord.AddHandler(onMessageCreate)

	modmessage.Start(discord, conf)
	trackreact.Start(discord, conf)

	err = discord.Open()
	if err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Fatal("Failed to create discord websocket connection")
		return
	}

	// We're running!
	Banner(nil)
	log.Infoln("Trackbot is ready. Quit with CTRL-C.")

	// Wait for a signal to quit
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
