package util

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotHasChannelPermission reports whether the bot user holds the given
// permission bits in a channel.
func BotHasChannelPermission(s *discordgo.Session, channelID string, permission int64) bool {
	perms, err := s.State.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		log.WithFields(log.Fields{
			"channel": channelID,
			"error":   err,
		}).Warning("Could not get bot permissions for channel")
		return false
	}
	return perms&permission != 0
}

// MemberHasRole reports whether a guild member holds a role with the given
// name. Roles are checked by name, not ID.
func MemberHasRole(s *discordgo.Session, guildID string, member *discordgo.Member, roleName string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		log.WithFields(log.Fields{
			"guild": guildID,
			"error": err,
		}).Warning("Could not get guild for role check")
		return false
	}
	roleNames := make(map[string]string, len(guild.Roles))
	for _, role := range guild.Roles {
		roleNames[role.ID] = role.Name
	}
	for _, roleID := range member.Roles {
		if roleNames[roleID] == roleName {
			return true
		}
	}
	return false
}

// GetChannelName returns the name of a channel
func GetChannelName(s *discordgo.Session, channelID string) string {
	channel, err := s.Channel(channelID)
	if err != nil {
		log.Warningln("Error while getting channel.", err)
		return channelID
	}
	return channel.Name
}

// GetGuildName returns the name of a guild
func GetGuildName(s *discordgo.Session, guildID string) string {
	guild, err := s.Guild(guildID)
	if err != nil {
		log.Warningln("Error while getting guild.", err)
		return guildID
	}
	return guild.Name
}
