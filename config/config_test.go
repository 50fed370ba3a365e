/* config_test.go
 * Contains unit tests for config.go
 */

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApp() App {
	return App{
		HTTPAddr:            ":5000",
		StoreBackend:        StoreFile,
		DataFile:            "pools.json",
		Timezone:            "Local",
		SchedulerInterval:   time.Minute,
		DeliveryConcurrency: 8,
		Messenger:           MessengerConsole,
	}
}

// region Load tests

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, "pools.json", cfg.DataFile)
	assert.Equal(t, 60*time.Second, cfg.SchedulerInterval)
	assert.Equal(t, 8, cfg.DeliveryConcurrency)
	assert.Equal(t, MessengerConsole, cfg.Messenger)
	assert.Equal(t, 1.0, cfg.TwilioRPS)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADMINS", "whatsapp:+34600111222, discord:42 ,")
	t.Setenv("STORE_BACKEND", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SCHEDULER_INTERVAL", "15s")
	t.Setenv("TIMEZONE", "Europe/Madrid")
	t.Setenv("MESSENGER", "TWILIO")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_FROM", "whatsapp:+14155238886")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"whatsapp:+34600111222", "discord:42"}, cfg.Admins)
	assert.Equal(t, StoreMongo, cfg.StoreBackend)
	assert.Equal(t, 15*time.Second, cfg.SchedulerInterval)
	assert.Equal(t, MessengerTwilio, cfg.Messenger)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("DELIVERY_CONCURRENCY", "many")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_MongoWithoutURI(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := Load()

	assert.ErrorContains(t, err, "MONGO_URI")
}

// endregion

// region Validate tests

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*App)
		wantErr string
	}{
		{"valid", func(c *App) {}, ""},
		{"unknown store", func(c *App) { c.StoreBackend = "redis" }, "STORE_BACKEND"},
		{"empty data file", func(c *App) { c.DataFile = "" }, "DATA_FILE"},
		{"twilio missing token", func(c *App) {
			c.Messenger = MessengerTwilio
			c.TwilioAccountSID = "AC123"
			c.TwilioFrom = "+1"
		}, "TWILIO_AUTH_TOKEN"},
		{"discord missing channel", func(c *App) {
			c.Messenger = MessengerDiscord
			c.DiscordToken = "token"
		}, "DISCORD_CHANNEL_ID"},
		{"discord complete", func(c *App) {
			c.Messenger = MessengerDiscord
			c.DiscordToken = "token"
			c.DiscordChannelID = "123"
		}, ""},
		{"unknown messenger", func(c *App) { c.Messenger = "telegram" }, "MESSENGER"},
		{"zero interval", func(c *App) { c.SchedulerInterval = 0 }, "SCHEDULER_INTERVAL"},
		{"zero concurrency", func(c *App) { c.DeliveryConcurrency = 0 }, "DELIVERY_CONCURRENCY"},
		{"bad timezone", func(c *App) { c.Timezone = "Mars/Olympus" }, "TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validApp()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLocation_Local(t *testing.T) {
	loc, err := App{}.Location()

	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

// endregion
