package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Engine is the orchestrator surface served over RPC.
type Engine interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.DraftSettings, error)
	GetDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error)
	StartDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error)
	PauseDraft(ctx context.Context, draftID, userID uuid.UUID) (*models.DraftSettings, error)
	ResumeDraft(ctx context.Context, draftID, userID uuid.UUID) (*models.DraftSettings, error)
	CompleteDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error)
	MakePick(ctx context.Context, draftID, teamID, playerID uuid.UUID) (*models.DraftPick, error)
	NominatePlayer(ctx context.Context, draftID, teamID, playerID uuid.UUID) (*models.AuctionNomination, error)
	PlaceBid(ctx context.Context, nominationID, teamID uuid.UUID, amount int) (*models.AuctionNomination, error)
	UndoPick(ctx context.Context, draftID, commissionerID uuid.UUID) (*models.DraftPick, error)
	GetDraftBoard(ctx context.Context, draftID uuid.UUID) (*models.DraftBoard, error)
}

// NewHandler returns the service path prefix and its handler.
func NewHandler(engine Engine, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateDraftProcedure, unary(CreateDraftProcedure, func(ctx context.Context, req *CreateDraftRequest) (*DraftResponse, error) {
		d, err := engine.CreateDraft(ctx, *req)
		return &DraftResponse{Draft: d}, err
	}, opts))
	mux.Handle(GetDraftProcedure, unary(GetDraftProcedure, func(ctx context.Context, req *DraftRequest) (*DraftResponse, error) {
		d, err := engine.GetDraft(ctx, req.DraftID)
		return &DraftResponse{Draft: d}, err
	}, opts))
	mux.Handle(StartDraftProcedure, unary(StartDraftProcedure, func(ctx context.Context, req *DraftRequest) (*DraftResponse, error) {
		d, err := engine.StartDraft(ctx, req.DraftID)
		return &DraftResponse{Draft: d}, err
	}, opts))
	mux.Handle(PauseDraftProcedure, unary(PauseDraftProcedure, func(ctx context.Context, req *CommissionerRequest) (*DraftResponse, error) {
		d, err := engine.PauseDraft(ctx, req.DraftID, req.UserID)
		return &DraftResponse{Draft: d}, err
	}, opts))
	mux.Handle(ResumeDraftProcedure, unary(ResumeDraftProcedure, func(ctx context.Context, req *CommissionerRequest) (*DraftResponse, error) {
		d, err := engine.ResumeDraft(ctx, req.DraftID, req.UserID)
		return &DraftResponse{Draft: d}, err
	}, opts))
	mux.Handle(CompleteDraftProcedure, unary(CompleteDraftProcedure, func(ctx context.Context, req *DraftRequest) (*DraftResponse, error) {
		d, err := engine.CompleteDraft(ctx, req.DraftID)
		return &DraftResponse{Draft: d}, err
	}, opts))
	mux.Handle(MakePickProcedure, unary(MakePickProcedure, func(ctx context.Context, req *SelectPlayerRequest) (*PickResponse, error) {
		p, err := engine.MakePick(ctx, req.DraftID, req.TeamID, req.PlayerID)
		return &PickResponse{Pick: p}, err
	}, opts))
	mux.Handle(NominatePlayerProcedure, unary(NominatePlayerProcedure, func(ctx context.Context, req *SelectPlayerRequest) (*NominationResponse, error) {
		n, err := engine.NominatePlayer(ctx, req.DraftID, req.TeamID, req.PlayerID)
		return &NominationResponse{Nomination: n}, err
	}, opts))
	mux.Handle(PlaceBidProcedure, unary(PlaceBidProcedure, func(ctx context.Context, req *PlaceBidRequest) (*NominationResponse, error) {
		n, err := engine.PlaceBid(ctx, req.NominationID, req.TeamID, req.Amount)
		return &NominationResponse{Nomination: n}, err
	}, opts))
	mux.Handle(UndoPickProcedure, unary(UndoPickProcedure, func(ctx context.Context, req *CommissionerRequest) (*PickResponse, error) {
		p, err := engine.UndoPick(ctx, req.DraftID, req.UserID)
		return &PickResponse{Pick: p}, err
	}, opts))
	mux.Handle(GetDraftBoardProcedure, unary(GetDraftBoardProcedure, func(ctx context.Context, req *DraftRequest) (*BoardResponse, error) {
		b, err := engine.GetDraftBoard(ctx, req.DraftID)
		return &BoardResponse{Board: b}, err
	}, opts))

	return "/" + ServiceName + "/", mux
}

// unary adapts an engine call to a Connect handler, mapping its error kind.
func unary[Req, Res any](procedure string, call func(context.Context, *Req) (*Res, error), opts []connect.HandlerOption) http.Handler {
	return connect.NewUnaryHandler(procedure, func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
		res, err := call(ctx, req.Msg)
		if err != nil {
			cerr := toConnectError(err)
			if connect.CodeOf(cerr) == connect.CodeInternal || connect.CodeOf(cerr) == connect.CodeUnavailable {
				log.Error().Err(err).Str("procedure", procedure).Msg("draft engine call failed")
			}
			return nil, cerr
		}
		return connect.NewResponse(res), nil
	}, opts...)
}
