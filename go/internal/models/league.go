package models

import (
	"github.com/google/uuid"
	"time"
)

// League is the owner of drafts. Only its commissioner may pause, resume or undo.
type League struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CommissionerID uuid.UUID `json:"commissioner_id"`
	Season         string    `json:"season"`
	CreatedAt      time.Time `json:"created_at"`
}
