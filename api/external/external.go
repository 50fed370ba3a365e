/* external.go
 * Contains the outbound messengers that talk to the world outside the bot. ConsoleMessenger is the
 * default when no provider is configured and only writes deliveries to the log
 */

package external

import (
	"context"

	"poolmanager-bot/api/shared"
	"poolmanager-bot/logger"
)

type ConsoleMessenger struct {
	log *logger.Logger
}

func NewConsoleMessenger(log *logger.Logger) *ConsoleMessenger {
	if log == nil {
		log = logger.Nop()
	}
	return &ConsoleMessenger{log: log}
}

func (c *ConsoleMessenger) Send(ctx context.Context, identity string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Info("outbound message", "to", identity, "text", text)
	return nil
}

var (
	_ shared.Messenger = (*ConsoleMessenger)(nil)
	_ shared.Messenger = (*TwilioMessenger)(nil)
)
