package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/draftroom/go/internal/models"
)

// Client calls a remote draft engine. Engine error kinds survive the trip, so
// errors.Is(err, orchestrator.ErrNotYourTurn) works as it does in process.
type Client struct {
	createDraft    *connect.Client[CreateDraftRequest, DraftResponse]
	getDraft       *connect.Client[DraftRequest, DraftResponse]
	startDraft     *connect.Client[DraftRequest, DraftResponse]
	pauseDraft     *connect.Client[CommissionerRequest, DraftResponse]
	resumeDraft    *connect.Client[CommissionerRequest, DraftResponse]
	completeDraft  *connect.Client[DraftRequest, DraftResponse]
	makePick       *connect.Client[SelectPlayerRequest, PickResponse]
	nominatePlayer *connect.Client[SelectPlayerRequest, NominationResponse]
	placeBid       *connect.Client[PlaceBidRequest, NominationResponse]
	undoPick       *connect.Client[CommissionerRequest, PickResponse]
	getDraftBoard  *connect.Client[DraftRequest, BoardResponse]
}

var _ Engine = (*Client)(nil)

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &Client{
		createDraft:    connect.NewClient[CreateDraftRequest, DraftResponse](httpClient, baseURL+CreateDraftProcedure, opts...),
		getDraft:       connect.NewClient[DraftRequest, DraftResponse](httpClient, baseURL+GetDraftProcedure, opts...),
		startDraft:     connect.NewClient[DraftRequest, DraftResponse](httpClient, baseURL+StartDraftProcedure, opts...),
		pauseDraft:     connect.NewClient[CommissionerRequest, DraftResponse](httpClient, baseURL+PauseDraftProcedure, opts...),
		resumeDraft:    connect.NewClient[CommissionerRequest, DraftResponse](httpClient, baseURL+ResumeDraftProcedure, opts...),
		completeDraft:  connect.NewClient[DraftRequest, DraftResponse](httpClient, baseURL+CompleteDraftProcedure, opts...),
		makePick:       connect.NewClient[SelectPlayerRequest, PickResponse](httpClient, baseURL+MakePickProcedure, opts...),
		nominatePlayer: connect.NewClient[SelectPlayerRequest, NominationResponse](httpClient, baseURL+NominatePlayerProcedure, opts...),
		placeBid:       connect.NewClient[PlaceBidRequest, NominationResponse](httpClient, baseURL+PlaceBidProcedure, opts...),
		undoPick:       connect.NewClient[CommissionerRequest, PickResponse](httpClient, baseURL+UndoPickProcedure, opts...),
		getDraftBoard:  connect.NewClient[DraftRequest, BoardResponse](httpClient, baseURL+GetDraftBoardProcedure, opts...),
	}
}

// call runs one unary request and unwraps the response message.
func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, fromConnectError(err)
	}
	return res.Msg, nil
}

func (c *Client) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.DraftSettings, error) {
	res, err := call(ctx, c.createDraft, &req)
	if err != nil {
		return nil, err
	}
	return res.Draft, nil
}

func (c *Client) GetDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error) {
	res, err := call(ctx, c.getDraft, &DraftRequest{DraftID: draftID})
	if err != nil {
		return nil, err
	}
	return res.Draft, nil
}

func (c *Client) StartDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error) {
	res, err := call(ctx, c.startDraft, &DraftRequest{DraftID: draftID})
	if err != nil {
		return nil, err
	}
	return res.Draft, nil
}

func (c *Client) PauseDraft(ctx context.Context, draftID, userID uuid.UUID) (*models.DraftSettings, error) {
	res, err := call(ctx, c.pauseDraft, &CommissionerRequest{DraftID: draftID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return res.Draft, nil
}

func (c *Client) ResumeDraft(ctx context.Context, draftID, userID uuid.UUID) (*models.DraftSettings, error) {
	res, err := call(ctx, c.resumeDraft, &CommissionerRequest{DraftID: draftID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return res.Draft, nil
}

func (c *Client) CompleteDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftSettings, error) {
	res, err := call(ctx, c.completeDraft, &DraftRequest{DraftID: draftID})
	if err != nil {
		return nil, err
	}
	return res.Draft, nil
}

func (c *Client) MakePick(ctx context.Context, draftID, teamID, playerID uuid.UUID) (*models.DraftPick, error) {
	res, err := call(ctx, c.makePick, &SelectPlayerRequest{DraftID: draftID, TeamID: teamID, PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	return res.Pick, nil
}

func (c *Client) NominatePlayer(ctx context.Context, draftID, teamID, playerID uuid.UUID) (*models.AuctionNomination, error) {
	res, err := call(ctx, c.nominatePlayer, &SelectPlayerRequest{DraftID: draftID, TeamID: teamID, PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	return res.Nomination, nil
}

func (c *Client) PlaceBid(ctx context.Context, nominationID, teamID uuid.UUID, amount int) (*models.AuctionNomination, error) {
	res, err := call(ctx, c.placeBid, &PlaceBidRequest{NominationID: nominationID, TeamID: teamID, Amount: amount})
	if err != nil {
		return nil, err
	}
	return res.Nomination, nil
}

func (c *Client) UndoPick(ctx context.Context, draftID, commissionerID uuid.UUID) (*models.DraftPick, error) {
	res, err := call(ctx, c.undoPick, &CommissionerRequest{DraftID: draftID, UserID: commissionerID})
	if err != nil {
		return nil, err
	}
	return res.Pick, nil
}

func (c *Client) GetDraftBoard(ctx context.Context, draftID uuid.UUID) (*models.DraftBoard, error) {
	res, err := call(ctx, c.getDraftBoard, &DraftRequest{DraftID: draftID})
	if err != nil {
		return nil, err
	}
	return res.Board, nil
}
