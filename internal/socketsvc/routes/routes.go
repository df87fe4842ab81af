package routes

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"

	"github.com/troycsc/desk-services/internal/socketsvc/handlers"
)

// SetRoutes mounts the feed. With a token auth the socket upgrade needs a
// staff token, taken from the jwt query parameter since browsers cannot set
// headers on a websocket handshake.
func SetRoutes(r chi.Router, h *handlers.Handler, tokenAuth *jwtauth.JWTAuth) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		r.Group(func(r chi.Router) {
			if tokenAuth != nil {
				r.Use(jwtauth.Verify(tokenAuth, jwtauth.TokenFromQuery, jwtauth.TokenFromHeader))
				r.Use(jwtauth.Authenticator)
			}
			r.Get("/ws", h.HandleWebSocket)
		})
	})
}
