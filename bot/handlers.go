/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 */

package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const handleTimeout = 10 * time.Second

// newMessageHandler routes a channel message to the command router with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	if message.Author == nil || message.Author.ID == botUserID || message.Author.Bot {
		return
	}

	command, ok := commandFrom(message.Content, b.Prefix)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	identity := IdentityFor(message.Author.ID)
	reply, err := b.APIPtr.Handle(ctx, command, identity)
	if err != nil {
		b.Log.Error("discord command failed", "identity", identity, "error", err)
		if reply == "" {
			return
		}
	}

	res := fmt.Sprintf("<@%s> %s", message.Author.ID, reply)
	if _, err := session.ChannelMessageSend(message.ChannelID, truncate(res)); err != nil {
		b.Log.Warn("discord reply not sent", "channel", message.ChannelID, "error", err)
	}
}
