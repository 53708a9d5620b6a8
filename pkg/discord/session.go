package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/small-frappuccino/menucore/pkg/errutil"
	"github.com/small-frappuccino/menucore/pkg/log"
)

// NewSession creates and opens a Discord session with the intents the
// menu surface needs: guild metadata, messages (the "!menu" trigger)
// and message content.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}

	var s *discordgo.Session
	if err := errutil.HandleDiscordError("create_session", func() error {
		var sessionErr error
		s, sessionErr = discordgo.New("Bot " + token)
		return sessionErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	// Menu evaluation writes per-render flags on shared elements, so
	// event handlers must run one at a time, not on per-event
	// goroutines.
	s.SyncEvents = true

	log.Info(log.Application, "Connecting to Discord...")
	if err := errutil.HandleDiscordError("connect", s.Open); err != nil {
		return nil, fmt.Errorf("failed to connect to Discord: %w", err)
	}
	log.Info(log.Application, "Connected to Discord")

	return s, nil
}
