/* models.go
 * Contains the configuration and server types of the HTTP surface
 */

package web

import (
	"context"

	"poolmanager-bot/logger"
)

// CommandHandler is the part of the command router the webhook needs. *api.API implements it
type CommandHandler interface {
	Handle(ctx context.Context, command string, sender string) (string, error)
}

// Config holds the configuration for the web server
type Config struct {
	Addr   string
	API    CommandHandler
	Logger *logger.Logger
}

// Server is the HTTP server that handles webhook requests
type Server struct {
	api CommandHandler
	log *logger.Logger
}

// NewServer builds the handler set for cfg
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Server{api: cfg.API, log: log}
}
