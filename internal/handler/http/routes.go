package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.registerStart)
		r.Post("/api/auth/register/verify", h.registerConfirm)
		r.Post("/api/auth/register/totp", h.registerProvisionTOTP)
		r.Post("/api/auth/register/confirm", h.registerConfirmToken)
		r.Post("/api/auth/login", h.loginStart)
		r.Post("/api/auth/login/verify", h.loginConfirm)
		r.Post("/api/auth/2fa/verify", h.twoFactorVerify)
		r.Get("/api/version", h.getServerVersion)
	})

	// vault routes require a valid session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/vault", h.listVaultItems)
		r.Post("/api/vault", h.createVaultItem)
		r.Patch("/api/vault/{id}", h.updateVaultItem)
		r.Delete("/api/vault/{id}", h.deleteVaultItem)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
