/* bot.go
 * Contains the Discord transport of the bot. Channel messages that start with the command prefix are
 * handed to the command router as if they had arrived over the webhook, under a discord:<user id> identity
 */

package bot

import (
	"fmt"
	"strings"

	"poolmanager-bot/api/api"
	"poolmanager-bot/logger"
)

const (
	DefaultPrefix   = "!"
	IdentityPrefix  = "discord:"
	maxMessageChars = 2000
)

type Bot struct {
	BotToken string
	APIPtr   *api.API
	// Prefix marks the channel messages meant for the bot
	Prefix string
	Log    *logger.Logger
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Prefix:   DefaultPrefix,
		Log:      logger.Nop(),
	}, nil
}

// IdentityFor returns the router identity of a Discord user
func IdentityFor(userID string) string {
	return IdentityPrefix + userID
}

// commandFrom strips the prefix from a channel message.
// Preconditions: Receives the message content and the configured prefix
// Postconditions: Returns the command text and true, or false when the message is not for the bot
func commandFrom(content string, prefix string) (string, bool) {
	content = strings.TrimSpace(content)
	if !startsWith(content, prefix) {
		return "", false
	}
	command := strings.TrimSpace(content[len(prefix):])
	return command, command != ""
}

// truncate keeps a reply within Discord's message limit
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageChars {
		return text
	}
	return string(runes[:maxMessageChars-1]) + "…"
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
