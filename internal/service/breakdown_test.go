package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/buildbot/internal/models"
)

func TestSizeName(t *testing.T) {
	cases := map[int]string{
		2:  "small",
		5:  "medium",
		10: "large",
		20: "monumental",
		7:  "unknown",
		0:  "unknown",
	}
	for size, expected := range cases {
		require.Equal(t, expected, SizeName(size), "size %d", size)
	}
}

func TestScoredSummaryOneLayout(t *testing.T) {
	submission := baseSubmission(models.SubmissionTypeOne)
	submission.Size = intPtr(5)
	submission.Quality = 1.5
	submission.Bonus = 1
	submission.Feedback = "nice"

	breakdown, err := NewBreakdown(submission)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionTypeOne, breakdown.Type())

	summary, err := ScoredSummary(submission, breakdown, "https://discord.com/channels/100/200/300")
	require.NoError(t, err)

	expected := "This submission earned **37.5 points!!!**\n\n" +
		"Builder: <@42>\n\n" +
		"*__Points breakdown:__*\n" +
		"Building type: medium\n" +
		"Quality multiplier: x1.5\n" +
		"Complexity multiplier: x2\n" +
		"Bonuses: x1\n" +
		"Collaborators: alice, bob\n" +
		"[Link](https://discord.com/channels/100/200/300)\n\n" +
		"__Feedback:__ `nice`"
	require.Equal(t, expected, summary)
}

func TestScoredSummaryUnknownSizeIsLabelled(t *testing.T) {
	submission := baseSubmission(models.SubmissionTypeOne)
	submission.Size = intPtr(3)

	breakdown, err := NewBreakdown(submission)
	require.NoError(t, err)

	summary, err := ScoredSummary(submission, breakdown, "link")
	require.NoError(t, err)
	require.Contains(t, summary, "Building type: unknown\n")
}

func TestScoredSummaryNoCollaborators(t *testing.T) {
	submission := baseSubmission(models.SubmissionTypeLand)
	submission.Sqm = floatPtr(400)
	submission.Collaborators = nil

	breakdown, err := NewBreakdown(submission)
	require.NoError(t, err)

	summary, err := ScoredSummary(submission, breakdown, "link")
	require.NoError(t, err)
	require.Contains(t, summary, "Collaborators: none\n")
	require.Contains(t, summary, "Land area: 400 sqm\n")
}

func TestNewBreakdownRequiresVariantFields(t *testing.T) {
	for _, kind := range []models.SubmissionType{models.SubmissionTypeOne, models.SubmissionTypeMany, models.SubmissionTypeLand, models.SubmissionTypeRoad} {
		_, err := NewBreakdown(baseSubmission(kind))
		require.ErrorIs(t, err, ErrMalformedSubmission, "type %s", kind)
	}

	_, err := NewBreakdown(baseSubmission("BRIDGE"))
	require.ErrorIs(t, err, ErrUnknownSubmissionType)
}

func TestRejectedSummary(t *testing.T) {
	summary := RejectedSummary(models.Rejection{Feedback: "off-topic"})
	require.Equal(t, "that submission was rejected : (\n\nFeedback: `off-topic`", summary)
}
