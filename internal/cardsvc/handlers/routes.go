package handlers

import (
	"os"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		r.Get("/health", h.HealthHandler)

		// Card routes are public. The verifier only decodes a session token
		// when one is sent; there is no authenticator gate, so anonymous
		// requests pass through untouched.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))

			r.Post("/cards", h.CreateCardHandler)
			r.Get("/cards/{id}", h.GetCardHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)
}
