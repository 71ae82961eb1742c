package session

import (
	"time"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/docs"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/wizard"
)

// Status of one onboarding attempt.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

// Turn is one entry of the ordered conversation log.
type Turn struct {
	Role string    `json:"role" bson:"role"` // "user" or "assistant"
	Text string    `json:"text" bson:"text"`
	At   time.Time `json:"at" bson:"at"`
}

// Session is one onboarding attempt. It exclusively owns its record and its
// uploaded documents; nothing is shared across sessions.
type Session struct {
	ID             string                  `json:"id" bson:"_id"`
	Step           wizard.Step             `json:"step" bson:"step"`
	Record         merchant.Record         `json:"record" bson:"record"`
	Documents      []docs.UploadedDocument `json:"documents,omitempty" bson:"documents,omitempty"`
	Conversation   []Turn                  `json:"conversation,omitempty" bson:"conversation,omitempty"`
	Status         Status                  `json:"status" bson:"status"`
	CreatedAt      time.Time               `json:"created_at" bson:"created_at"`
	LastActivityAt time.Time               `json:"last_activity_at" bson:"last_activity_at"`
}
