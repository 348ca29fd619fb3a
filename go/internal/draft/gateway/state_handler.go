package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// StateProvider returns board snapshots. Clients fetch one on connect and then
// apply the websocket event stream on top. Both the engine and its RPC client
// satisfy it.
type StateProvider interface {
	GetDraftBoard(ctx context.Context, draftID uuid.UUID) (*models.DraftBoard, error)
}

// DraftStateResponse is a board with the seconds left on the current deadline.
type DraftStateResponse struct {
	*models.DraftBoard
	TimeRemainingSec *int `json:"time_remaining_sec,omitempty"`
}

type StateHandler struct {
	stateProvider StateProvider
	now           func() time.Time
}

func NewStateHandler(provider StateProvider) *StateHandler {
	return &StateHandler{
		stateProvider: provider,
		now:           time.Now,
	}
}

// HandleGetDraftState handles GET /api/drafts/{id}/state
func (h *StateHandler) HandleGetDraftState(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid draft id", http.StatusBadRequest)
		return
	}

	board, err := h.stateProvider.GetDraftBoard(r.Context(), draftID)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "draft not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to get draft state")
		http.Error(w, "failed to get draft state", http.StatusInternalServerError)
		return
	}

	resp := DraftStateResponse{DraftBoard: board}
	if board.Deadline != nil {
		if remaining := int(board.Deadline.Sub(h.now()).Seconds()); remaining > 0 {
			resp.TimeRemainingSec = &remaining
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode draft state response")
	}
}

func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/drafts/{id}/state", h.HandleGetDraftState)
}
