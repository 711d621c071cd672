package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/noah-isme/buildbot/internal/dto"
	"github.com/noah-isme/buildbot/internal/models"
	"github.com/noah-isme/buildbot/internal/repository"
	"github.com/noah-isme/buildbot/pkg/discord"
)

// ErrInvalidMessageID indicates the ID does not name a message in the guild's submit channel.
var ErrInvalidMessageID = errors.New("not a message in the submit channel")

const (
	// SummaryTitle titles every review summary embed.
	SummaryTitle = "POINTS!"

	unreviewedText = "this submission has not been reviewed yet!"
)

// MessageFetcher resolves a message within one channel of a guild.
type MessageFetcher interface {
	FetchMessage(ctx context.Context, guildID, channelID, messageID string) (discord.Message, error)
}

// SubmitChannelResolver resolves the channel builds are posted in.
type SubmitChannelResolver interface {
	SubmitChannel(ctx context.Context, guildID string) (string, error)
}

// SummaryService builds review summaries for submitted builds.
type SummaryService interface {
	Lookup(ctx context.Context, req dto.SeeCommandRequest) (dto.Reply, error)
}

type summaryService struct {
	guilds      SubmitChannelResolver
	messages    MessageFetcher
	submissions repository.SubmissionRepository
	rejections  repository.RejectionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewSummaryService constructs a SummaryService instance.
func NewSummaryService(guilds SubmitChannelResolver, messages MessageFetcher, submissions repository.SubmissionRepository, rejections repository.RejectionRepository, validate *validator.Validate, logger zerolog.Logger) SummaryService {
	return &summaryService{
		guilds:      guilds,
		messages:    messages,
		submissions: submissions,
		rejections:  rejections,
		validator:   validate,
		logger:      logger.With().Str("component", "summary_service").Logger(),
	}
}

func (s *summaryService) Lookup(ctx context.Context, req dto.SeeCommandRequest) (dto.Reply, error) {
	tracer := otel.Tracer("github.com/noah-isme/buildbot/internal/service/summary")
	ctx, span := tracer.Start(ctx, "summary.lookup", trace.WithSpanKind(trace.SpanKindServer))
	span.SetAttributes(
		attribute.String("summary.guild_id", req.GuildID),
		attribute.String("summary.submission_id", req.SubmissionID),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.Reply{}, fmt.Errorf("%w: %v", ErrInvalidMessageID, err)
	}

	channelID, err := s.guilds.SubmitChannel(ctx, req.GuildID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit_channel_lookup_failed")
		return dto.Reply{}, err
	}

	message, err := s.messages.FetchMessage(ctx, req.GuildID, channelID, req.SubmissionID)
	if err != nil {
		s.logger.Debug().Err(err).Str("submission_id", req.SubmissionID).Msg("submission message not resolved")
		span.SetStatus(codes.Error, "message_not_found")
		return dto.Reply{}, fmt.Errorf("%w: %v", ErrInvalidMessageID, err)
	}

	var (
		submission models.Submission
		found      bool
		rejected   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record, err := s.submissions.GetByID(gctx, req.SubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load submission: %w", err)
		}
		submission = record
		found = true
		return nil
	})
	g.Go(func() error {
		exists, err := s.rejections.Exists(gctx, req.SubmissionID)
		if err != nil {
			return fmt.Errorf("failed to check rejection: %w", err)
		}
		rejected = exists
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record_lookup_failed")
		return dto.Reply{}, err
	}

	var reply dto.Reply
	switch {
	case rejected:
		if found {
			s.logger.Warn().Str("submission_id", req.SubmissionID).Msg("submission is both scored and rejected, showing rejection")
		}
		reply, err = s.rejectedReply(ctx, req.SubmissionID)
	case found:
		reply, err = s.scoredReply(submission, message.URL)
	default:
		reply = dto.EmbedReply("", unreviewedText, dto.OutcomeUnreviewed)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summary_failed")
		return dto.Reply{}, err
	}

	span.SetAttributes(attribute.String("summary.outcome", string(reply.Outcome)))

	return reply, nil
}

func (s *summaryService) rejectedReply(ctx context.Context, id string) (dto.Reply, error) {
	rejection, err := s.rejections.GetByID(ctx, id)
	if err != nil {
		return dto.Reply{}, fmt.Errorf("failed to load rejection: %w", err)
	}

	return dto.EmbedReply(SummaryTitle, RejectedSummary(rejection), dto.OutcomeRejected), nil
}

func (s *summaryService) scoredReply(submission models.Submission, link string) (dto.Reply, error) {
	if err := s.validator.Struct(submission); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				if fieldErr.Field() == "SubmissionType" && fieldErr.Tag() == "oneof" {
					return dto.Reply{}, fmt.Errorf("%w: %q", ErrUnknownSubmissionType, submission.SubmissionType)
				}
			}
		}
		return dto.Reply{}, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
	}

	breakdown, err := NewBreakdown(submission)
	if err != nil {
		return dto.Reply{}, err
	}

	summary, err := ScoredSummary(submission, breakdown, link)
	if err != nil {
		return dto.Reply{}, err
	}

	return dto.EmbedReply(SummaryTitle, summary, dto.OutcomeScored), nil
}
