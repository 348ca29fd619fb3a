package api

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/mcdev12/draftroom/go/internal/draft/orchestrator"
)

// errorKindHeader names the engine error kind so the client can restore it.
const errorKindHeader = "Draft-Error-Kind"

type errorKind struct {
	name string
	err  error
	code connect.Code
}

var errorKinds = []errorKind{
	{"not_found", orchestrator.ErrNotFound, connect.CodeNotFound},
	{"invalid_state", orchestrator.ErrInvalidState, connect.CodeFailedPrecondition},
	{"not_your_turn", orchestrator.ErrNotYourTurn, connect.CodeFailedPrecondition},
	{"already_drafted", orchestrator.ErrAlreadyDrafted, connect.CodeAlreadyExists},
	{"insufficient_budget", orchestrator.ErrInsufficientBudget, connect.CodeFailedPrecondition},
	{"bid_too_low", orchestrator.ErrBidTooLow, connect.CodeInvalidArgument},
	{"permission_denied", orchestrator.ErrPermissionDenied, connect.CodePermissionDenied},
	{"exhausted", orchestrator.ErrExhausted, connect.CodeResourceExhausted},
	{"invalid_argument", orchestrator.ErrInvalidArgument, connect.CodeInvalidArgument},
	{"persistence", orchestrator.ErrPersistence, connect.CodeUnavailable},
}

// toConnectError maps an engine error to a Connect error carrying its kind.
func toConnectError(err error) error {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			cerr := connect.NewError(k.code, err)
			cerr.Meta().Set(errorKindHeader, k.name)
			return cerr
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}

// fromConnectError restores the engine error kind so callers can use errors.Is.
func fromConnectError(err error) error {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return err
	}
	name := cerr.Meta().Get(errorKindHeader)
	for _, k := range errorKinds {
		if k.name == name {
			return &remoteError{kind: k.err, cause: cerr}
		}
	}
	return err
}

// remoteError matches both the engine kind and the Connect error.
type remoteError struct {
	kind  error
	cause *connect.Error
}

func (e *remoteError) Error() string   { return e.cause.Message() }
func (e *remoteError) Unwrap() []error { return []error{e.kind, e.cause} }
