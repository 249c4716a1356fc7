// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/service"
	"github.com/MKhiriev/go-vault-guard/internal/utils"
	"github.com/MKhiriev/go-vault-guard/models"
)

func (h *Handler) listVaultItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	items, err := h.services.VaultService.GetVaultItems(ctx, userID)
	if err != nil {
		writeError(w, r, err, "could not list vault items")
		return
	}

	utils.WriteJSON(w, items, http.StatusOK)
}

func (h *Handler) createVaultItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var item models.VaultItem
	if !decodeJSON(w, r, &item) {
		return
	}
	item.UserID = userID

	created, err := h.services.VaultService.CreateVaultItem(ctx, item)
	if err != nil {
		writeError(w, r, err, "could not create vault item")
		return
	}

	log.Debug().Str("id", created.ID).Msg("vault item created")

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateVaultItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var update models.VaultItemUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	update.ID = chi.URLParam(r, "id")
	update.UserID = userID

	if err := h.services.VaultService.UpdateVaultItem(ctx, update); err != nil {
		writeError(w, r, err, "could not update vault item")
		return
	}

	utils.WriteJSON(w, map[string]bool{"ok": true}, http.StatusOK)
}

func (h *Handler) deleteVaultItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		writeError(w, r, service.ErrInvalidDataProvided, "vault item id is required")
		return
	}

	if err := h.services.VaultService.DeleteVaultItem(ctx, userID, itemID); err != nil {
		writeError(w, r, err, "could not delete vault item")
		return
	}

	utils.WriteJSON(w, map[string]bool{"ok": true}, http.StatusOK)
}
