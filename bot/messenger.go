/* messenger.go
 * Contains the Discord implementation of the outbound Messenger: deliveries are posted to one channel,
 * mentioning the recipient when it is a Discord identity
 */

package bot

import (
	"context"
	"fmt"
	"strings"

	apperrors "poolmanager-bot/api/errors"
	"poolmanager-bot/api/shared"
)

type DiscordMessenger struct {
	session   DiscordSession
	channelID string
}

func NewDiscordMessenger(session DiscordSession, channelID string) (*DiscordMessenger, error) {
	if session == nil || channelID == "" {
		return nil, fmt.Errorf("session and channelID are required")
	}
	return &DiscordMessenger{session: session, channelID: channelID}, nil
}

func (m *DiscordMessenger) Send(ctx context.Context, identity string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var content string
	if userID, ok := strings.CutPrefix(identity, IdentityPrefix); ok && userID != "" {
		content = fmt.Sprintf("<@%s> %s", userID, text)
	} else {
		content = fmt.Sprintf("📨 %s: %s", identity, text)
	}

	if _, err := m.session.ChannelMessageSend(m.channelID, truncate(content)); err != nil {
		return apperrors.NewAppError(apperrors.CodeDelivery, fmt.Sprintf("posting to channel %s", m.channelID), err)
	}
	return nil
}

var _ shared.Messenger = (*DiscordMessenger)(nil)
