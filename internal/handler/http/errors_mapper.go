package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-vault-guard/internal/service"
	"github.com/MKhiriev/go-vault-guard/internal/store"
)

type errorStatus struct {
	err    error
	status int
}

// errorStatuses is matched in order: when a wrapped chain contains several
// sentinels, the first entry wins, so the table stays deterministic.
var errorStatuses = []errorStatus{
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrInvalidPin, http.StatusBadRequest},
	{service.ErrTwoFactorNotInitialized, http.StatusNotFound},
	{service.ErrVersionIsNotSpecified, http.StatusBadRequest},

	// "no active pin" and "already consumed" map alike: the caller learns
	// only that no verifiable code exists right now.
	{store.ErrNoActivePin, http.StatusBadRequest},
	{store.ErrPinAlreadyConsumed, http.StatusBadRequest},

	{store.ErrEmailAlreadyExists, http.StatusConflict},
	{store.ErrNoUserWasFound, http.StatusNotFound},
	{store.ErrVaultItemNotFound, http.StatusNotFound},
	{store.ErrVaultItemNotSaved, http.StatusInternalServerError},

	{store.ErrBuildingSQLQuery, http.StatusInternalServerError},
	{store.ErrExecutingQuery, http.StatusInternalServerError},
	{store.ErrScanningRow, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}
