/* utils.go
 * Utility functions used across the application
 */

package main

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"poolmanager-bot/bot"
)

// convertStrToBool converts a string of true or false into a boolean for comparisons
// Preconditions: Receives string containing either true or false (case insensitive)
// Postconditions: Returns boolean value or an error if the string is not true or false
func convertStrToBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	if str == "true" {
		return true, nil
	} else if str == "false" {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string")
}

// isNilSession reports whether session is nil, including a typed nil *discordgo.Session
func isNilSession(session bot.DiscordSession) bool {
	if session == nil {
		return true
	}
	s, ok := session.(*discordgo.Session)
	return ok && s == nil
}
