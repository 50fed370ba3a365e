/* main_test.go
 * Contains unit tests for main.go and utils.go functions
 */

package main

import (
	"context"
	"path/filepath"
	"testing"

	"poolmanager-bot/api/external"
	"poolmanager-bot/api/store"
	"poolmanager-bot/bot"
	"poolmanager-bot/config"
	"poolmanager-bot/logger"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConvertStrToBool_True tests converting "true" string
func TestConvertStrToBool_True(t *testing.T) {
	result, err := convertStrToBool("true")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_False tests converting "false" string
func TestConvertStrToBool_False(t *testing.T) {
	result, err := convertStrToBool("false")

	assert.NoError(t, err)
	assert.False(t, result)
}

// TestConvertStrToBool_CaseInsensitiveTrue tests case-insensitive "TRUE"
func TestConvertStrToBool_CaseInsensitiveTrue(t *testing.T) {
	result, err := convertStrToBool("TRUE")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_CaseInsensitiveFalse tests case-insensitive "FALSE"
func TestConvertStrToBool_CaseInsensitiveFalse(t *testing.T) {
	result, err := convertStrToBool("FALSE")

	assert.NoError(t, err)
	assert.False(t, result)
}

// TestConvertStrToBool_MixedCase tests mixed case "TrUe"
func TestConvertStrToBool_MixedCase(t *testing.T) {
	result, err := convertStrToBool("TrUe")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_WithWhitespace tests string with leading/trailing whitespace
func TestConvertStrToBool_WithWhitespace(t *testing.T) {
	result, err := convertStrToBool("  true  ")

	assert.NoError(t, err)
	assert.True(t, result)
}

// TestConvertStrToBool_InvalidString tests invalid boolean string
func TestConvertStrToBool_InvalidString(t *testing.T) {
	_, err := convertStrToBool("yes")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid boolean string")
}

// TestConvertStrToBool_EmptyString tests empty string
func TestConvertStrToBool_EmptyString(t *testing.T) {
	_, err := convertStrToBool("")

	assert.Error(t, err)
}

// TestConvertStrToBool_NumberString tests numeric string
func TestConvertStrToBool_NumberString(t *testing.T) {
	_, err := convertStrToBool("1")

	assert.Error(t, err)
}

// TestConvertStrToBool_OnlyWhitespace tests string with only whitespace
func TestConvertStrToBool_OnlyWhitespace(t *testing.T) {
	_, err := convertStrToBool("   ")

	assert.Error(t, err)
}

// region wiring tests

func TestNewStore_File(t *testing.T) {
	cfg := config.App{StoreBackend: config.StoreFile, DataFile: filepath.Join(t.TempDir(), "data", "pools.json")}

	st, err := newStore(context.Background(), cfg)

	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, st)
	doc, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Pools)
}

func TestNewMessenger_Console(t *testing.T) {
	m, err := newMessenger(config.App{Messenger: config.MessengerConsole}, nil, logger.Nop())

	require.NoError(t, err)
	assert.IsType(t, &external.ConsoleMessenger{}, m)
}

func TestNewMessenger_Twilio(t *testing.T) {
	cfg := config.App{
		Messenger:        config.MessengerTwilio,
		TwilioAccountSID: "AC123",
		TwilioAuthToken:  "secret",
		TwilioFrom:       "whatsapp:+14155238886",
		TwilioRPS:        1,
	}

	m, err := newMessenger(cfg, nil, logger.Nop())

	require.NoError(t, err)
	assert.IsType(t, &external.TwilioMessenger{}, m)
}

func TestNewMessenger_DiscordNeedsSession(t *testing.T) {
	cfg := config.App{Messenger: config.MessengerDiscord, DiscordChannelID: "123"}

	_, err := newMessenger(cfg, nil, logger.Nop())
	assert.Error(t, err)

	var typedNil *discordgo.Session
	_, err = newMessenger(cfg, typedNil, logger.Nop())
	assert.Error(t, err)

	m, err := newMessenger(cfg, bot.NewMockDiscordSession(), logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &bot.DiscordMessenger{}, m)
}

// endregion
