// Package modmessage lets moderators post canned messages via a slash
// command.
package modmessage

import (
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/exercism/trackbot/internal/cfg"
	"github.com/exercism/trackbot/internal/util"
)

const (
	commandName   = "mod_message"
	moderatorRole = "moderators"

	// how long the ephemeral notices stick around
	ackDeleteAfter        = 5 * time.Second
	permissionDeleteAfter = 30 * time.Second
)

var (
	guildID        string
	cannedMessages map[string]string
)

// Start the cog
func Start(discord *discordgo.Session, conf *cfg.Config) {
	guildID = conf.Discord.GuildID
	cannedMessages = conf.CannedMessages

	discord.AddHandler(onReady)
	discord.AddHandler(onInteractionCreate)
	log.Infoln("modmessage cog registered")
}

// Sync registers the slash command on the configured guild. Registration
// is an upsert, so calling it again after a canned message change is safe.
func Sync(s *discordgo.Session) {
	log.Infoln("Syncing mod_message command.")
	if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, command()); err != nil {
		log.WithFields(log.Fields{
			"guild": guildID,
			"error": err,
		}).Error("Failed to register mod_message command")
	}
}

func onReady(s *discordgo.Session, _ *discordgo.Ready) {
	Sync(s)
}

func command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Post a canned mod message via the bot.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "Which canned message to post",
				Required:    true,
				Choices:     commandChoices(cannedMessages),
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "mention",
				Description: "Member to mention in the message",
			},
		},
	}
}

// commandChoices builds the enum of canned message keys, sorted so repeated
// syncs produce the same command definition.
func commandChoices(messages map[string]string) []*discordgo.ApplicationCommandOptionChoice {
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(keys))
	for _, key := range keys {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  key,
			Value: key,
		})
	}
	return choices
}

func onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	if i.GuildID == "" || i.Member == nil {
		log.Debugln("mod_message invoked outside a guild member context.")
		return
	}
	channel, err := channelFor(s, i.ChannelID)
	if err != nil {
		log.Debugln("mod_message invoked in a channel the bot cannot resolve.")
		return
	}
	if !postable(channel.Type) {
		log.Debugln("mod_message invoked in a channel that cannot carry messages.")
		return
	}

	if !util.MemberHasRole(s, i.GuildID, i.Member, moderatorRole) {
		respondEphemeral(s, i, "That command is only for moderators; sorry!", 0)
		log.Debugln("mod_message member is not a moderator.")
		return
	}

	var key string
	var mention *discordgo.User
	for _, opt := range data.Options {
		switch opt.Name {
		case "message":
			key = opt.StringValue()
		case "mention":
			mention = opt.UserValue(s)
		}
	}

	content, ok := cannedMessages[key]
	if !ok {
		respondEphemeral(s, i, "That canned message was not found! This is a bug.", 0)
		log.WithFields(log.Fields{
			"message": key,
		}).Warning("Canned message key not valid")
		return
	}

	if !util.BotHasChannelPermission(s, i.ChannelID, discordgo.PermissionSendMessages) {
		respondEphemeral(s, i, "I do not have permissions to send messages in this channel.", permissionDeleteAfter)
		log.WithFields(log.Fields{
			"channel": util.GetChannelName(s, i.ChannelID),
			"id":      i.ChannelID,
		}).Warning("No permission to post in channel")
		return
	}

	respondEphemeral(s, i, "Sending canned message.", ackDeleteAfter)
	if _, err := s.ChannelMessageSend(i.ChannelID, composeMessage(content, mention)); err != nil {
		log.WithFields(log.Fields{
			"channel": i.ChannelID,
			"error":   err,
		}).Error("Failed to send canned message")
	}
}

func channelFor(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
	}
	return channel, err
}

// postable reports whether a channel type can carry a normal text message.
func postable(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return true
	}
	return false
}

// composeMessage prefixes the canned text with a mention when one is given.
func composeMessage(content string, mention *discordgo.User) string {
	if mention == nil {
		return content
	}
	return mention.Mention() + " " + content
}

// respondEphemeral sends an ephemeral reply to the interaction, optionally
// deleting it again after a delay so the invoker's view stays uncluttered.
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string, deleteAfter time.Duration) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Error("Failed to respond to interaction")
		return
	}
	if deleteAfter > 0 {
		go func() {
			time.Sleep(deleteAfter)
			if err := s.InteractionResponseDelete(i.Interaction); err != nil {
				log.Debugln("Could not delete interaction response.", err)
			}
		}()
	}
}
