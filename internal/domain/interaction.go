package domain

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is one persisted record of an executed assistant command.
// CreatedAt is assigned at insert time and never changes; soft deletion
// only flips Active.
type Interaction struct {
	ID        uuid.UUID
	UserID    *uuid.UUID // nil for anonymous commands
	Utterance string
	Intent    Intent
	Response  string
	Success   bool
	CreatedAt time.Time
	Active    bool
}

// InteractionUpdate carries the two fields of an interaction that remain
// mutable after creation. Nil means "leave unchanged".
type InteractionUpdate struct {
	Utterance *string
	Response  *string
}

// ReportRow is one line handed to the report collaborator. Text fields are
// capped at 80 characters with an ellipsis for display.
type ReportRow struct {
	CreatedAt time.Time
	UserName  string
	Utterance string
	Response  string
}
