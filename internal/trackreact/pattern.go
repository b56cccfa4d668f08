package trackreact

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// trackEmojiPrefix marks guild emoji that represent a language track.
const trackEmojiPrefix = "track_"

// trackPattern pairs a compiled keyword pattern with the emoji to apply.
type trackPattern struct {
	re    *regexp.Regexp
	emoji *discordgo.Emoji
}

// buildReacts derives the full pattern set from a guild emoji list. Emoji
// named with the track prefix become tracks; aliases clone an existing
// track's emoji under another keyword. Aliases pointing at unknown tracks
// are dropped with a warning.
func buildReacts(emojis []*discordgo.Emoji, aliases map[string]string, caseSensitive map[string]bool) []trackPattern {
	tracks := make(map[string]*discordgo.Emoji)
	for _, emoji := range emojis {
		if strings.HasPrefix(emoji.Name, trackEmojiPrefix) {
			tracks[strings.TrimPrefix(emoji.Name, trackEmojiPrefix)] = emoji
		}
	}
	for alias, src := range aliases {
		if emoji, ok := tracks[src]; ok {
			tracks[alias] = emoji
		} else {
			log.WithFields(log.Fields{
				"track": src,
				"alias": alias,
			}).Warning("Could not find track for alias")
		}
	}

	reacts := make([]trackPattern, 0, len(tracks))
	for track, emoji := range tracks {
		if track == "" {
			continue
		}
		re, err := buildPattern(track, caseSensitive)
		if err != nil {
			log.WithFields(log.Fields{
				"track": track,
				"error": err,
			}).Warning("Could not compile pattern for track")
			continue
		}
		reacts = append(reacts, trackPattern{re: re, emoji: emoji})
	}
	return reacts
}

// buildPattern compiles the keyword pattern for a single track name.
//
// Matching is case insensitive except for single character tracks and
// tracks on the case sensitive list, which are title cased and matched
// exactly. Underscores act as flexible separators so "common_lisp" matches
// both "common lisp" and "common_lisp". The pattern starts at a word
// boundary. It also ends at one, unless the name's last character is not
// alphanumeric: `\bc\+\+\b` would match inside "c++lang" but not before
// "c++ lang", so symbol-suffixed tracks end with `\B` instead.
func buildPattern(track string, caseSensitive map[string]bool) (*regexp.Regexp, error) {
	insensitive := true
	if utf8.RuneCountInString(track) == 1 || caseSensitive[track] {
		track = titleCase(track)
		insensitive = false
	}

	last, _ := utf8.DecodeLastRuneInString(track)
	boundaryEnd := `\b`
	if !unicode.IsLetter(last) && !unicode.IsDigit(last) {
		boundaryEnd = `\B`
	}

	parts := strings.Split(track, "_")
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}

	pattern := `\b` + strings.Join(parts, ".?") + boundaryEnd
	if insensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// matchEmoji returns the deduplicated set of emoji whose patterns match the
// content, after code blocks have been stripped.
func matchEmoji(reacts []trackPattern, content string) []*discordgo.Emoji {
	content = stripCodeBlocks(content)
	seen := make(map[string]bool)
	var matched []*discordgo.Emoji
	for _, tp := range reacts {
		if !tp.re.MatchString(content) {
			continue
		}
		if seen[tp.emoji.APIName()] {
			continue
		}
		seen[tp.emoji.APIName()] = true
		matched = append(matched, tp.emoji)
	}
	return matched
}

// stripCodeBlocks removes the contents of triple-backtick fenced regions.
// A fence opened with a single bare language tag keeps that tag (title
// cased) as a surviving line, so a block's declared language still counts
// for matching even though its body does not.
func stripCodeBlocks(message string) string {
	var lines []string
	inBlock := false
	for _, line := range strings.Split(message, "\n") {
		if strings.HasPrefix(line, "```") {
			if !inBlock {
				parts := strings.Fields(line)
				if len(parts) == 1 {
					lines = append(lines, titleCase(parts[0]))
				}
			}
			inBlock = !inBlock
		}
		if !inBlock {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// titleCase uppercases every letter that follows a non-letter and
// lowercases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
