package notify

import (
	"regexp"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len calculates the UTF-16 length of a string.
// Telegram uses UTF-16 code units for entity offsets/lengths.
func UTF16Len(s string) int {
	length := 0
	for _, b := range []byte(s) {
		if (b & 0xc0) != 0x80 {
			if b >= 0xf0 {
				length += 2 // Non-BMP characters (surrogate pairs)
			} else {
				length += 1
			}
		}
	}
	return length
}

var (
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeRe = regexp.MustCompile("`([^`]+?)`")
)

// ParseMarkdown strips **bold** and `code` markers from text and returns
// the plain text together with the matching Telegram entities.
func ParseMarkdown(text string) ParseResult {
	var entities []tgbotapi.MessageEntity
	result := text

	strip := func(re *regexp.Regexp, entityType string) {
		for {
			loc := re.FindStringSubmatchIndex(result)
			if loc == nil {
				break
			}
			inner := result[loc[2]:loc[3]]
			entities = append(entities, tgbotapi.MessageEntity{
				Type:   entityType,
				Offset: UTF16Len(result[:loc[0]]),
				Length: UTF16Len(inner),
			})
			result = result[:loc[0]] + inner + result[loc[1]:]
		}
	}

	strip(boldRe, "bold")
	strip(codeRe, "code")

	// Telegram requires entities sorted by offset
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Offset < entities[j].Offset
	})

	return ParseResult{
		Text:     strings.TrimRight(result, " \n"),
		Entities: entities,
	}
}
