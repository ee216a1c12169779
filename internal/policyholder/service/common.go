package service

import (
	"context"
	"errors"
	"fmt"

	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/sentinel"
)

func requireHolderID(holderID id.PolicyHolderID) error {
	if holderID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "policy holder ID required")
	}
	return nil
}

// Error wrapping helpers translate sentinel errors to domain errors.

func wrapHolderErr(err error, identifier string, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.NotFound("policy holder", identifier)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, action)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, action)
	}
}

// wrapSaveErr maps repository save failures. A version conflict means another
// request saved the holder since it was loaded; the caller may reload and retry.
func wrapSaveErr(err error, holderID id.PolicyHolderID) error {
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return &dErrors.Error{
			Code:    dErrors.CodeConflict,
			Message: fmt.Sprintf("policy holder %s was modified concurrently", holderID),
			Err:     err,
		}
	case errors.Is(err, sentinel.ErrIDTaken):
		return dErrors.Wrap(err, dErrors.CodeInternal,
			fmt.Sprintf("policy holder id %s is already taken by a stored holder", holderID))
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return &dErrors.Error{
			Code:    dErrors.CodeConflict,
			Message: "policy holder already registered",
			Err:     err,
		}
	default:
		return wrapHolderErr(err, holderID.String(), "failed to save policy holder")
	}
}
