// Package trackreact reacts to new posts and threads with the language
// track emoji whose keywords appear in the text.
package trackreact

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/exercism/trackbot/internal/cfg"
	"github.com/exercism/trackbot/internal/util"
)

// threadBridgeDelay gives the message create event a head start over the
// thread create event for the same thread. Best effort, not a guarantee.
const threadBridgeDelay = 500 * time.Millisecond

var (
	guildID       string
	aliases       map[string]string
	caseSensitive map[string]bool

	// reacts is rebuilt wholesale on every ready event. Readers always see
	// either the old or the new set, never a partial rebuild.
	reactsMu sync.RWMutex
	reacts   []trackPattern

	// pending bridges message create and thread create events, keyed by
	// thread ID. Entries for threads that never materialize stay until the
	// process restarts.
	pendingMu sync.Mutex
	pending   = make(map[string]*discordgo.Message)
)

// Start the cog
func Start(discord *discordgo.Session, conf *cfg.Config) {
	guildID = conf.Discord.GuildID
	aliases = conf.Aliases
	caseSensitive = make(map[string]bool, len(conf.CaseSensitive))
	for _, track := range conf.CaseSensitive {
		caseSensitive[track] = true
	}

	discord.AddHandler(onReady)
	discord.AddHandler(onMessageCreate)
	discord.AddHandler(onThreadCreate)
	log.Infoln("trackreact cog registered")
}

// onReady rebuilds the pattern set from the guild's emoji list.
func onReady(s *discordgo.Session, _ *discordgo.Ready) {
	emojis, err := s.GuildEmojis(guildID)
	if err != nil {
		log.WithFields(log.Fields{
			"guild": guildID,
			"error": err,
		}).Error("Failed to fetch guild emojis")
		return
	}

	built := buildReacts(emojis, aliases, caseSensitive)

	reactsMu.Lock()
	reacts = built
	reactsMu.Unlock()

	log.WithFields(log.Fields{
		"patterns": len(built),
	}).Debug("Rebuilt track reactions")
}

// onMessageCreate adds reactions to a new message. Messages in public
// threads are also recorded for the thread create bridge.
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	channel, err := s.State.Channel(m.ChannelID)
	if err != nil {
		channel, err = s.Channel(m.ChannelID)
	}
	if err == nil && channel.Type == discordgo.ChannelTypeGuildPublicThread {
		pendingMu.Lock()
		pending[m.ChannelID] = m.Message
		pendingMu.Unlock()
	}

	addReacts(s, m.Message, m.Content)
}

// onThreadCreate adds reactions to a thread's starter message, matching
// against the thread title instead of the message body. The gateway also
// delivers this event on unarchive and join, so only newly created threads
// go through the bridge.
func onThreadCreate(s *discordgo.Session, t *discordgo.ThreadCreate) {
	if !t.NewlyCreated {
		return
	}

	time.Sleep(threadBridgeDelay)

	message, ok := takePending(t.ID)
	if !ok {
		log.WithFields(log.Fields{
			"thread": t.ID,
		}).Info("Could not find message for thread")
		return
	}
	addReacts(s, message, t.Name)
}

// takePending consumes the bridged message for a thread, if one was seen.
func takePending(threadID string) (*discordgo.Message, bool) {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	message, ok := pending[threadID]
	delete(pending, threadID)
	return message, ok
}

// addReacts applies the matched emoji set to a message. Each reaction is
// independent; one failing does not stop the rest.
func addReacts(s *discordgo.Session, message *discordgo.Message, content string) {
	if message.GuildID == "" {
		return
	}
	if !util.BotHasChannelPermission(s, message.ChannelID, discordgo.PermissionAddReactions) {
		log.WithFields(log.Fields{
			"channel": util.GetChannelName(s, message.ChannelID),
			"guild":   util.GetGuildName(s, message.GuildID),
		}).Warning("Missing add reactions permission")
		return
	}

	reactsMu.RLock()
	current := reacts
	reactsMu.RUnlock()

	for _, emoji := range matchEmoji(current, content) {
		if err := s.MessageReactionAdd(message.ChannelID, message.ID, emoji.APIName()); err != nil {
			log.WithFields(log.Fields{
				"emoji": emoji.Name,
				"error": err,
			}).Error("Failed to add reaction")
		}
	}
}
