package handler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/buildbot/internal/bot"
	"github.com/noah-isme/buildbot/internal/dto"
	"github.com/noah-isme/buildbot/internal/handler"
	"github.com/noah-isme/buildbot/internal/service"
)

type stubSummaryService struct {
	reply    dto.Reply
	err      error
	requests []dto.SeeCommandRequest
}

func (s *stubSummaryService) Lookup(_ context.Context, req dto.SeeCommandRequest) (dto.Reply, error) {
	s.requests = append(s.requests, req)
	return s.reply, s.err
}

func seeInvocation(guildID, id string) bot.Invocation {
	return bot.Invocation{
		Command:       "see",
		GuildID:       guildID,
		UserID:        "42",
		InteractionID: "9000",
		Options:       map[string]string{"id": id},
	}
}

func TestSeeHandlerCommandDefinition(t *testing.T) {
	cmd := handler.NewSeeHandler(&stubSummaryService{}, zerolog.Nop()).Command()

	require.Equal(t, "see", cmd.Definition.Name)
	require.Len(t, cmd.Definition.Options, 1)
	require.Equal(t, "id", cmd.Definition.Options[0].Name)
	require.True(t, cmd.Definition.Options[0].Required)
	require.Equal(t, discordgo.ApplicationCommandOptionString, cmd.Definition.Options[0].Type)
	require.NotNil(t, cmd.Handler)
}

func TestSeeHandlerPassesThroughSummary(t *testing.T) {
	svc := &stubSummaryService{reply: dto.EmbedReply(service.SummaryTitle, "summary", dto.OutcomeScored)}
	h := handler.NewSeeHandler(svc, zerolog.Nop())

	reply := h.Handle(context.Background(), seeInvocation("100", " 1100000000000000001 "))
	require.Equal(t, dto.OutcomeScored, reply.Outcome)
	require.Equal(t, "summary", reply.Embed.Description)
	require.Equal(t, []dto.SeeCommandRequest{{GuildID: "100", SubmissionID: "1100000000000000001"}}, svc.requests)
}

func TestSeeHandlerInvalidMessageID(t *testing.T) {
	svc := &stubSummaryService{err: fmt.Errorf("%w: unknown message", service.ErrInvalidMessageID)}
	h := handler.NewSeeHandler(svc, zerolog.Nop())

	reply := h.Handle(context.Background(), seeInvocation("100", "12345"))
	require.Equal(t, dto.OutcomeInvalidID, reply.Outcome)
	require.Nil(t, reply.Embed)
	require.Equal(t, "'12345' is not a valid message ID from the build submit channel!", reply.Content)
}

func TestSeeHandlerAlwaysRepliesOnFailure(t *testing.T) {
	cases := []error{
		errors.New("connection refused"),
		fmt.Errorf("%w: TREE", service.ErrUnknownSubmissionType),
		service.ErrMalformedSubmission,
		service.ErrGuildNotConfigured,
	}

	for _, failure := range cases {
		h := handler.NewSeeHandler(&stubSummaryService{err: failure}, zerolog.Nop())

		reply := h.Handle(context.Background(), seeInvocation("100", "12345"))
		require.Equal(t, dto.OutcomeError, reply.Outcome, failure.Error())
		require.NotEmpty(t, reply.Content, failure.Error())
		require.NotContains(t, reply.Content, failure.Error())
	}
}

func TestSeeHandlerRequiresGuild(t *testing.T) {
	svc := &stubSummaryService{}
	h := handler.NewSeeHandler(svc, zerolog.Nop())

	reply := h.Handle(context.Background(), seeInvocation("", "12345"))
	require.Equal(t, dto.OutcomeError, reply.Outcome)
	require.Empty(t, svc.requests)
}
