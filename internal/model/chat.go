package model

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one entry in a conversation transcript.
type ChatMessage struct {
	Role       ChatRole `json:"role"`
	Text       string   `json:"text"`
	IsThinking bool     `json:"isThinking,omitempty"`
}

// EmailApproach names one style of outreach email.
type EmailApproach string

const (
	EmailApproachDirect EmailApproach = "direct"
	EmailApproachStory  EmailApproach = "story"
	EmailApproachUrgent EmailApproach = "urgent"
)

// EmailApproaches is the fixed set of drafts requested per lead.
var EmailApproaches = []EmailApproach{
	EmailApproachDirect,
	EmailApproachStory,
	EmailApproachUrgent,
}

// EmailDrafts maps an approach to the drafted email body.
type EmailDrafts map[EmailApproach]string

// Clone returns a copy of the drafts.
func (d EmailDrafts) Clone() EmailDrafts {
	if d == nil {
		return nil
	}
	out := make(EmailDrafts, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
