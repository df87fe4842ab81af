package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {

		// public routes
		r.Get("/health", h.HealthHandler)
		r.Post("/auth/login", h.Login)
		r.Post("/requests", h.CreateRequest)

		// staff routes
		r.Group(func(r chi.Router) {
			if h.tokenAuth != nil {
				r.Use(jwtauth.Verifier(h.tokenAuth))
				r.Use(jwtauth.Authenticator)
			}

			r.Get("/requests", h.GetRequests)
			r.Put("/requests", h.UpdateRequest)
			r.Delete("/requests", h.DeleteRequest)

			r.Get("/cards", h.GetCard)
			r.Post("/cards", h.CardAction)
			r.Put("/cards", h.UpdateCard)
			r.Get("/cards/history", h.GetCardHistory)

			r.Get("/logs", h.GetLogs)

			r.Post("/audit/normalize", h.AuditNormalize)
			r.Post("/audit/export", h.AuditExport)
			r.Post("/audit/report", h.AuditReport)
		})
	})
}
