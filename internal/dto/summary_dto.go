package dto

// SeeCommandRequest carries the arguments of the see command.
type SeeCommandRequest struct {
	GuildID      string `validate:"required,numeric"`
	SubmissionID string `validate:"required,max=32"`
}

// ReplyOutcome labels how a command invocation ended.
type ReplyOutcome string

const (
	OutcomeScored     ReplyOutcome = "scored"
	OutcomeRejected   ReplyOutcome = "rejected"
	OutcomeUnreviewed ReplyOutcome = "unreviewed"
	OutcomeInvalidID  ReplyOutcome = "invalid_id"
	OutcomeError      ReplyOutcome = "error"
)

// Embed is a titled rich-text block.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

// Reply is the single message sent back for a command invocation.
// Exactly one of Content and Embed is set.
type Reply struct {
	Content string       `json:"content,omitempty"`
	Embed   *Embed       `json:"embed,omitempty"`
	Outcome ReplyOutcome `json:"outcome"`
}

// TextReply builds a plain-text reply.
func TextReply(content string, outcome ReplyOutcome) Reply {
	return Reply{Content: content, Outcome: outcome}
}

// EmbedReply builds a reply holding one embed.
func EmbedReply(title, description string, outcome ReplyOutcome) Reply {
	return Reply{Embed: &Embed{Title: title, Description: description}, Outcome: outcome}
}

// Text returns the user-visible text of the reply.
func (r Reply) Text() string {
	if r.Embed != nil {
		if r.Embed.Title == "" {
			return r.Embed.Description
		}
		return r.Embed.Title + "\n" + r.Embed.Description
	}
	return r.Content
}

// GuildSettingsEvent is published when the review team changes a guild's configuration.
type GuildSettingsEvent struct {
	GuildID         string `json:"guild_id"`
	SubmitChannelID string `json:"submit_channel_id,omitempty"`
}
