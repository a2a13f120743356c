package impl

import (
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	"portal/internal/errors"
)

// translateUpstreamError maps repository sentinels onto domain errors.
func translateUpstreamError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCompanyNotFound):
		return errors.Wrap(domainerrors.ErrCompanyNotFound, err.Error())
	case errors.Is(err, repository.ErrUpstream):
		return errors.Wrap(domainerrors.ErrUpstreamUnavailable, err.Error())
	default:
		return errors.WithStack(err)
	}
}
