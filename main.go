/* main.go
 * The "main" method for running the bot. Settings are read from the environment, see `config/config.go`
 * Usage: go run . -env=".env" -discord="false"
 */

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"poolmanager-bot/api/api"
	"poolmanager-bot/api/external"
	"poolmanager-bot/api/shared"
	"poolmanager-bot/api/store"
	"poolmanager-bot/bot"
	"poolmanager-bot/config"
	"poolmanager-bot/logger"
	"poolmanager-bot/scheduler"
	"poolmanager-bot/web"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	//Flags
	envPtr := flag.String("env", ".env", "Path of the .env file to load before reading the environment")
	discordPtr := flag.String("discord", "false", "Also accept commands from Discord: takes true or false as argument")
	flag.Parse()

	if err := godotenv.Load(*envPtr); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading %s: %v", *envPtr, err)
	}

	runDiscord, err := convertStrToBool(*discordPtr)
	if err != nil {
		log.Fatalf("Invalid \"discord\" flag. Should be true or false: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	lg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, ServiceName: "poolmanager-bot"})
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runDiscord, lg); err != nil {
		lg.Fatal("bot stopped with error", "error", err)
	}
}

// run wires every component and blocks until ctx is cancelled or one of them fails
func run(ctx context.Context, cfg config.App, runDiscord bool, lg *logger.Logger) error {
	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			lg.Warn("failed to close store", "error", err)
		}
	}()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var session *discordgo.Session
	if runDiscord || cfg.Messenger == config.MessengerDiscord {
		if cfg.DiscordToken == "" {
			return errors.New("DISCORD_TOKEN is required to use Discord")
		}
		if session, err = bot.NewSession(cfg.DiscordToken); err != nil {
			return err
		}
	}

	messenger, err := newMessenger(cfg, session, lg)
	if err != nil {
		return err
	}

	router, err := api.NewAPI(st, messenger, api.Config{
		Admins:              cfg.Admins,
		Location:            loc,
		DeliveryConcurrency: cfg.DeliveryConcurrency,
		Logger:              lg.With("component", "router"),
	})
	if err != nil {
		return err
	}

	sched := scheduler.New(st, messenger, lg.With("component", "scheduler"),
		scheduler.WithInterval(cfg.SchedulerInterval),
		scheduler.WithConcurrency(cfg.DeliveryConcurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return web.Start(gctx, web.Config{Addr: cfg.HTTPAddr, API: router, Logger: lg.With("component", "web")})
	})
	if runDiscord {
		discordBot, err := bot.NewBot(cfg.DiscordToken, router)
		if err != nil {
			return err
		}
		discordBot.Log = lg.With("component", "discord")
		g.Go(func() error { return discordBot.Run(gctx, session) })
	}

	err = g.Wait()
	// let broadcasts that were already accepted finish before the store closes
	router.Wait()
	return err
}

// newStore opens the configured store backend
func newStore(ctx context.Context, cfg config.App) (store.Interface, error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoCollection)
	default:
		return store.NewFileStore(cfg.DataFile)
	}
}

// newMessenger builds the outbound transport used for broadcasts and opening notices
func newMessenger(cfg config.App, session bot.DiscordSession, lg *logger.Logger) (shared.Messenger, error) {
	switch cfg.Messenger {
	case config.MessengerTwilio:
		return external.NewTwilioMessenger(external.TwilioConfig{
			AccountSID:        cfg.TwilioAccountSID,
			AuthToken:         cfg.TwilioAuthToken,
			From:              cfg.TwilioFrom,
			RequestsPerSecond: cfg.TwilioRPS,
		})
	case config.MessengerDiscord:
		if isNilSession(session) {
			return nil, errors.New("a Discord session is required for the discord messenger")
		}
		return bot.NewDiscordMessenger(session, cfg.DiscordChannelID)
	default:
		return external.NewConsoleMessenger(lg.With("component", "messenger")), nil
	}
}
