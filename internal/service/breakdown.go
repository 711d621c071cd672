package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/buildbot/internal/models"
)

// ErrUnknownSubmissionType indicates a stored submission carries a type the bot cannot render.
var ErrUnknownSubmissionType = errors.New("unknown submission type")

// ErrMalformedSubmission indicates a stored submission is missing fields its type requires.
var ErrMalformedSubmission = errors.New("malformed submission record")

const unknownSizeName = "unknown"

// Breakdown is the type-specific part of a scored submission.
// Implementations: OneBreakdown, ManyBreakdown, LandBreakdown, RoadBreakdown.
type Breakdown interface {
	Type() models.SubmissionType
}

// Multipliers are shared by every submission type.
type Multipliers struct {
	Quality    float64
	Complexity float64
	Bonus      float64
}

// OneBreakdown scores a single building by size.
type OneBreakdown struct {
	Multipliers
	Size          int
	Collaborators []string
}

// ManyBreakdown scores a group of buildings by count per size.
type ManyBreakdown struct {
	Multipliers
	Small  int
	Medium int
	Large  int
}

// LandBreakdown scores landscaping by area.
type LandBreakdown struct {
	Multipliers
	Sqm           float64
	Collaborators []string
}

// RoadBreakdown scores road work by length.
type RoadBreakdown struct {
	Multipliers
	RoadType      string
	Kilometers    float64
	Collaborators []string
}

func (OneBreakdown) Type() models.SubmissionType  { return models.SubmissionTypeOne }
func (ManyBreakdown) Type() models.SubmissionType { return models.SubmissionTypeMany }
func (LandBreakdown) Type() models.SubmissionType { return models.SubmissionTypeLand }
func (RoadBreakdown) Type() models.SubmissionType { return models.SubmissionTypeRoad }

// NewBreakdown converts a stored submission into its typed breakdown.
func NewBreakdown(s models.Submission) (Breakdown, error) {
	m := Multipliers{Quality: s.Quality, Complexity: s.Complexity, Bonus: s.Bonus}
	collaborators := []string(s.Collaborators)

	switch s.SubmissionType {
	case models.SubmissionTypeOne:
		if s.Size == nil {
			return nil, fmt.Errorf("%w: %s has no size", ErrMalformedSubmission, s.ID)
		}
		return OneBreakdown{Multipliers: m, Size: *s.Size, Collaborators: collaborators}, nil
	case models.SubmissionTypeMany:
		if s.SmallAmt == nil || s.MediumAmt == nil || s.LargeAmt == nil {
			return nil, fmt.Errorf("%w: %s has no building counts", ErrMalformedSubmission, s.ID)
		}
		return ManyBreakdown{Multipliers: m, Small: *s.SmallAmt, Medium: *s.MediumAmt, Large: *s.LargeAmt}, nil
	case models.SubmissionTypeLand:
		if s.Sqm == nil {
			return nil, fmt.Errorf("%w: %s has no area", ErrMalformedSubmission, s.ID)
		}
		return LandBreakdown{Multipliers: m, Sqm: *s.Sqm, Collaborators: collaborators}, nil
	case models.SubmissionTypeRoad:
		if s.RoadType == nil || s.RoadKMs == nil {
			return nil, fmt.Errorf("%w: %s has no road details", ErrMalformedSubmission, s.ID)
		}
		return RoadBreakdown{Multipliers: m, RoadType: *s.RoadType, Kilometers: *s.RoadKMs, Collaborators: collaborators}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubmissionType, s.SubmissionType)
	}
}

// SizeName maps the size multiplier of a single building to its name.
func SizeName(size int) string {
	switch size {
	case 2:
		return "small"
	case 5:
		return "medium"
	case 10:
		return "large"
	case 20:
		return "monumental"
	default:
		return unknownSizeName
	}
}

// ScoredSummary renders the description of a scored submission.
func ScoredSummary(s models.Submission, b Breakdown, link string) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This submission earned **%s points!!!**\n\n", formatNumber(s.PointsTotal))
	fmt.Fprintf(&sb, "Builder: <@%s>\n\n", s.UserID)
	sb.WriteString("*__Points breakdown:__*\n")

	switch v := b.(type) {
	case OneBreakdown:
		fmt.Fprintf(&sb, "Building type: %s\n", SizeName(v.Size))
		writeMultipliers(&sb, v.Multipliers)
		fmt.Fprintf(&sb, "Collaborators: %s\n", formatCollaborators(v.Collaborators))
	case ManyBreakdown:
		fmt.Fprintf(&sb, "Number of buildings (S/M/L): %d/%d/%d\n", v.Small, v.Medium, v.Large)
		writeMultipliers(&sb, v.Multipliers)
	case LandBreakdown:
		fmt.Fprintf(&sb, "Land area: %s sqm\n", formatNumber(v.Sqm))
		writeMultipliers(&sb, v.Multipliers)
		fmt.Fprintf(&sb, "Collaborators: %s\n", formatCollaborators(v.Collaborators))
	case RoadBreakdown:
		fmt.Fprintf(&sb, "Road type: %s\n", v.RoadType)
		fmt.Fprintf(&sb, "Quality multiplier: x%s\n", formatNumber(v.Quality))
		fmt.Fprintf(&sb, "Complexity multiplier: x%s\n", formatNumber(v.Complexity))
		fmt.Fprintf(&sb, "Distance: %s km\n", formatNumber(v.Kilometers))
		fmt.Fprintf(&sb, "Bonuses: x%s\n", formatNumber(v.Bonus))
		fmt.Fprintf(&sb, "Collaborators: %s\n", formatCollaborators(v.Collaborators))
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownSubmissionType, b)
	}

	fmt.Fprintf(&sb, "[Link](%s)\n\n", link)
	fmt.Fprintf(&sb, "__Feedback:__ `%s`", s.Feedback)

	return sb.String(), nil
}

// RejectedSummary renders the description of a rejected submission.
func RejectedSummary(r models.Rejection) string {
	return fmt.Sprintf("that submission was rejected : (\n\nFeedback: `%s`", r.Feedback)
}

func writeMultipliers(sb *strings.Builder, m Multipliers) {
	fmt.Fprintf(sb, "Quality multiplier: x%s\n", formatNumber(m.Quality))
	fmt.Fprintf(sb, "Complexity multiplier: x%s\n", formatNumber(m.Complexity))
	fmt.Fprintf(sb, "Bonuses: x%s\n", formatNumber(m.Bonus))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCollaborators(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return "none"
	}
	return strings.Join(cleaned, ", ")
}
