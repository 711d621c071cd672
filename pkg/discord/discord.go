package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
)

// ErrMessageNotFound indicates the message does not exist in the requested channel.
var ErrMessageNotFound = errors.New("discord message not found")

// ErrMalformedID indicates the identifier is not a Discord snowflake.
var ErrMalformedID = errors.New("malformed discord id")

// Message is the subset of a channel message the bot needs.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	URL       string
}

type messageGetter interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// MessageClient resolves channel messages through the Discord REST API.
type MessageClient struct {
	api    messageGetter
	logger zerolog.Logger
}

// NewMessageClient wraps an authenticated discordgo session.
func NewMessageClient(session *discordgo.Session, logger zerolog.Logger) *MessageClient {
	return newMessageClient(session, logger)
}

func newMessageClient(api messageGetter, logger zerolog.Logger) *MessageClient {
	return &MessageClient{
		api:    api,
		logger: logger.With().Str("component", "discord_messages").Logger(),
	}
}

// FetchMessage loads messageID from channelID. Snowflakes are checked locally before any request is made.
func (c *MessageClient) FetchMessage(ctx context.Context, guildID, channelID, messageID string) (Message, error) {
	if _, err := snowflake.ParseString(messageID); err != nil {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformedID, messageID)
	}

	msg, err := c.api.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return Message{}, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
		}
		return Message{}, fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}

	result := Message{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   guildID,
		URL:       MessageURL(guildID, msg.ChannelID, msg.ID),
	}
	if msg.Author != nil {
		result.AuthorID = msg.Author.ID
	}

	c.logger.Debug().Str("message_id", msg.ID).Str("channel_id", msg.ChannelID).Msg("message fetched")

	return result, nil
}

// MessageURL builds the jump link to a guild message.
func MessageURL(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return true
		}
	}

	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
