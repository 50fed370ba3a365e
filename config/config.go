/* config.go
 * Contains the typed process configuration read from the environment (and from .env through godotenv
 * in main.go)
 */

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreFile  = "file"
	StoreMongo = "mongo"

	MessengerConsole = "console"
	MessengerTwilio  = "twilio"
	MessengerDiscord = "discord"
)

type App struct {
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":5000"`

	// Storage
	StoreBackend    string `envconfig:"STORE_BACKEND" default:"file"`
	DataFile        string `envconfig:"DATA_FILE" default:"pools.json"`
	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDB         string `envconfig:"MONGO_DB" default:"poolmanager"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"state"`

	// Behaviour
	Admins              []string      `envconfig:"ADMINS"`
	Timezone            string        `envconfig:"TIMEZONE" default:"Local"`
	SchedulerInterval   time.Duration `envconfig:"SCHEDULER_INTERVAL" default:"60s"`
	DeliveryConcurrency int           `envconfig:"DELIVERY_CONCURRENCY" default:"8"`

	// Outbound messages
	Messenger        string  `envconfig:"MESSENGER" default:"console"`
	TwilioAccountSID string  `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string  `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string  `envconfig:"TWILIO_FROM"`
	TwilioRPS        float64 `envconfig:"TWILIO_RPS" default:"1"`
	DiscordToken     string  `envconfig:"DISCORD_TOKEN"`
	DiscordChannelID string  `envconfig:"DISCORD_CHANNEL_ID"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads the configuration from the environment and validates it
func Load() (App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, err
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return App{}, err
	}
	return c, nil
}

// normalize trims list entries and lower-cases the enumerated settings
func (c *App) normalize() {
	admins := make([]string, 0, len(c.Admins))
	for _, admin := range c.Admins {
		if admin = strings.TrimSpace(admin); admin != "" {
			admins = append(admins, admin)
		}
	}
	c.Admins = admins
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.Messenger = strings.ToLower(strings.TrimSpace(c.Messenger))
}

// Validate checks that every selected backend has the settings it needs.
// Preconditions: None
// Postconditions: Returns nil, or an error naming the first missing or invalid setting
func (c App) Validate() error {
	switch c.StoreBackend {
	case StoreFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file store")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want file or mongo)", c.StoreBackend)
	}

	switch c.Messenger {
	case MessengerConsole:
	case MessengerTwilio:
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioFrom == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM are required for the twilio messenger")
		}
	case MessengerDiscord:
		if c.DiscordToken == "" || c.DiscordChannelID == "" {
			return fmt.Errorf("DISCORD_TOKEN and DISCORD_CHANNEL_ID are required for the discord messenger")
		}
	default:
		return fmt.Errorf("unknown MESSENGER %q (want console, twilio or discord)", c.Messenger)
	}

	if c.SchedulerInterval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}
	if c.DeliveryConcurrency <= 0 {
		return fmt.Errorf("DELIVERY_CONCURRENCY must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TIMEZONE. "Local" and an empty value mean the host zone
func (c App) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
