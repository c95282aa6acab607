package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
)

// toConnectError maps domain errors to RPC codes. Internal errors are
// logged here and returned without their cause.
func toConnectError(op string, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	if errors.Is(err, context.Canceled) {
		return connect.NewError(connect.CodeCanceled, err)
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case apperr.KindNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case apperr.KindPermission:
		return connect.NewError(connect.CodePermissionDenied, err)
	case apperr.KindTimeout:
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New(op+" failed"))
}

// requireUser returns the caller or an unauthenticated error for guests.
func requireUser(ctx context.Context) (auth.Identity, error) {
	id := middleware.GetIdentity(ctx)
	if id.IsGuest() {
		return id, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}

// requireOwner allows only the creator of bill through.
func requireOwner(ctx context.Context, bill *models.Bill) (auth.Identity, error) {
	id, err := requireUser(ctx)
	if err != nil {
		return id, err
	}
	if id.KindFor(bill) != auth.Owner {
		return id, connect.NewError(connect.CodePermissionDenied,
			apperr.Permission("only the owner of bill %s can change it", bill.ID))
	}
	return id, nil
}
