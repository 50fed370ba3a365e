/* messenger_test.go
 * Contains unit tests for messenger.go
 */

package bot

import (
	"context"
	"errors"
	"testing"

	apperrors "poolmanager-bot/api/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscordMessenger_Validation(t *testing.T) {
	_, err := NewDiscordMessenger(nil, "channel123")
	assert.Error(t, err)

	_, err = NewDiscordMessenger(NewMockDiscordSession(), "")
	assert.Error(t, err)
}

func TestDiscordMessenger_MentionsDiscordUsers(t *testing.T) {
	session := NewMockDiscordSession()
	m, err := NewDiscordMessenger(session, "channel123")
	require.NoError(t, err)

	require.NoError(t, m.Send(context.Background(), "discord:42", "La inscripción ya está abierta"))

	assert.Equal(t, MockMessage{ChannelID: "channel123", Content: "<@42> La inscripción ya está abierta"}, session.GetLastMessage())
}

func TestDiscordMessenger_OtherIdentities(t *testing.T) {
	session := NewMockDiscordSession()
	m, _ := NewDiscordMessenger(session, "channel123")

	require.NoError(t, m.Send(context.Background(), "whatsapp:+34600000001", "hola"))

	assert.Equal(t, "📨 whatsapp:+34600000001: hola", session.GetLastMessage().Content)
}

func TestDiscordMessenger_SendError(t *testing.T) {
	session := NewMockDiscordSession()
	session.ErrorToReturn = errors.New("rate limited")
	m, _ := NewDiscordMessenger(session, "channel123")

	err := m.Send(context.Background(), "discord:42", "hola")

	assert.True(t, apperrors.Is(err, apperrors.CodeDelivery))
}

func TestDiscordMessenger_CancelledContext(t *testing.T) {
	session := NewMockDiscordSession()
	m, _ := NewDiscordMessenger(session, "channel123")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, "discord:42", "hola"), context.Canceled)
	assert.Len(t, session.SentMessages, 0)
}
