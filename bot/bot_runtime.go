//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go to avoid code duplication.
 */

package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// NewSession creates a Discord session for token. Opening it is left to the caller so the same session
// can back both the bot and a DiscordMessenger
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	return session, nil
}

// Run listens for channel messages on session until ctx is done
func (b *Bot) Run(ctx context.Context, session *discordgo.Session) error {
	remove := session.AddHandler(b.newMessage)
	defer remove()

	if err := session.Open(); err != nil {
		return err
	}
	defer session.Close() // close session, after function termination

	b.Log.Info("Discord bot started", "prefix", b.Prefix)
	<-ctx.Done()
	b.Log.Info("Discord bot stopped")
	return nil
}

// newMessage delegates to the testable newMessageHandler
// *discordgo.Session implements DiscordSession interface
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
