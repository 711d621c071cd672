package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/noah-isme/buildbot/internal/bot"
	"github.com/noah-isme/buildbot/internal/dto"
	"github.com/noah-isme/buildbot/internal/middleware"
	"github.com/noah-isme/buildbot/internal/service"
)

const (
	seeCommandName = "see"
	seeOptionID    = "id"

	guildOnlyText     = "this command can only be used in a server!"
	notConfiguredText = "this server has no build submit channel configured yet!"
	lookupFailedText  = "something went wrong while looking up that submission, please try again later."
)

// SeeHandler answers the see command with a submission's review summary.
type SeeHandler struct {
	service service.SummaryService
	logger  zerolog.Logger
}

// NewSeeHandler builds a see command handler instance.
func NewSeeHandler(service service.SummaryService, logger zerolog.Logger) *SeeHandler {
	return &SeeHandler{
		service: service,
		logger:  logger.With().Str("component", "see_handler").Logger(),
	}
}

// Command returns the application command definition bound to this handler.
func (h *SeeHandler) Command() bot.Command {
	return bot.Command{
		Definition: &discordgo.ApplicationCommand{
			Name:        seeCommandName,
			Description: "SEE the review summary of a submission.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        seeOptionID,
					Description: "message id of the submission",
					Required:    true,
				},
			},
		},
		Handler: h,
	}
}

// Handle always produces exactly one reply. Failures the user cannot fix are logged and answered generically.
func (h *SeeHandler) Handle(ctx context.Context, inv bot.Invocation) dto.Reply {
	submissionID := strings.TrimSpace(inv.Options[seeOptionID])

	if inv.GuildID == "" {
		return dto.TextReply(guildOnlyText, dto.OutcomeError)
	}

	reply, err := h.service.Lookup(ctx, dto.SeeCommandRequest{
		GuildID:      inv.GuildID,
		SubmissionID: submissionID,
	})
	if err != nil {
		return h.handleError(ctx, inv, submissionID, err)
	}

	return reply
}

func (h *SeeHandler) handleError(ctx context.Context, inv bot.Invocation, submissionID string, err error) dto.Reply {
	switch {
	case errors.Is(err, service.ErrInvalidMessageID):
		return dto.TextReply(invalidMessageIDText(submissionID), dto.OutcomeInvalidID)
	case errors.Is(err, service.ErrGuildNotConfigured):
		return dto.TextReply(notConfiguredText, dto.OutcomeError)
	default:
		h.logger.Error().
			Err(err).
			Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
			Str("guild_id", inv.GuildID).
			Str("user_id", inv.UserID).
			Str("submission_id", submissionID).
			Msg("submission summary failed")
		return dto.TextReply(lookupFailedText, dto.OutcomeError)
	}
}

func invalidMessageIDText(id string) string {
	return fmt.Sprintf("'%s' is not a valid message ID from the build submit channel!", id)
}
