// Package router sets up all HTTP routes and middleware chains of the
// related content admin.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"relatedcontent/internal/handlers"
	"relatedcontent/internal/middleware"
	"relatedcontent/internal/session"
	"relatedcontent/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter may be nil to disable login
// rate limiting.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, loginLimiter *middleware.RateLimiter, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("router: static assets missing: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))
		r.Use(middleware.LoadSession(sessionStore))

		r.Get("/login", auth.LoginPage)
		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter.Middleware)
			}
			r.Post("/login", auth.LoginSubmit)
		})
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/admin/related-types", http.StatusSeeOther)
			})

			// Relationship types. Everyone signed in can browse them,
			// changes are admin only.
			r.Route("/related-types", func(r chi.Router) {
				r.Get("/", admin.RelatedTypesList)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/new", admin.RelatedTypeNew)
					r.Post("/", admin.RelatedTypeCreate)
					r.Get("/{id}/edit", admin.RelatedTypeEdit)
					r.Post("/{id}", admin.RelatedTypeUpdate)
					r.Post("/{id}/delete", admin.RelatedTypeDelete)
				})
			})

			// Related content inline of any registered object.
			r.Route("/objects/{model}/{id}/related", func(r chi.Router) {
				r.Get("/", admin.ObjectRelated)
				r.Post("/", admin.ObjectRelatedSave)
				r.Post("/clear", admin.ObjectRelatedClear)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
