package api

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
	"github.com/mcdev12/draftroom/go/internal/models"
)

const ServiceName = "draft.v1.DraftEngineService"

// Procedure paths.
const (
	CreateDraftProcedure    = "/" + ServiceName + "/CreateDraft"
	GetDraftProcedure       = "/" + ServiceName + "/GetDraft"
	StartDraftProcedure     = "/" + ServiceName + "/StartDraft"
	PauseDraftProcedure     = "/" + ServiceName + "/PauseDraft"
	ResumeDraftProcedure    = "/" + ServiceName + "/ResumeDraft"
	CompleteDraftProcedure  = "/" + ServiceName + "/CompleteDraft"
	MakePickProcedure       = "/" + ServiceName + "/MakePick"
	NominatePlayerProcedure = "/" + ServiceName + "/NominatePlayer"
	PlaceBidProcedure       = "/" + ServiceName + "/PlaceBid"
	UndoPickProcedure       = "/" + ServiceName + "/UndoPick"
	GetDraftBoardProcedure  = "/" + ServiceName + "/GetDraftBoard"
)

type CreateDraftRequest = orchestrator.CreateDraftRequest

type DraftRequest struct {
	DraftID uuid.UUID `json:"draft_id"`
}

// CommissionerRequest carries the acting user for commissioner-only calls.
type CommissionerRequest struct {
	DraftID uuid.UUID `json:"draft_id"`
	UserID  uuid.UUID `json:"user_id"`
}

type SelectPlayerRequest struct {
	DraftID  uuid.UUID `json:"draft_id"`
	TeamID   uuid.UUID `json:"team_id"`
	PlayerID uuid.UUID `json:"player_id"`
}

type PlaceBidRequest struct {
	NominationID uuid.UUID `json:"nomination_id"`
	TeamID       uuid.UUID `json:"team_id"`
	Amount       int       `json:"amount"`
}

type DraftResponse struct {
	Draft *models.DraftSettings `json:"draft"`
}

type PickResponse struct {
	Pick *models.DraftPick `json:"pick"`
}

type NominationResponse struct {
	Nomination *models.AuctionNomination `json:"nomination"`
}

type BoardResponse struct {
	Board *models.DraftBoard `json:"board"`
}
