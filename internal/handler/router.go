package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommiddleware "github.com/mmeshcher/vidly/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса проката.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.Metrics(h.metrics))
	r.Use(custommiddleware.Recoverer(h.logger))
	r.Use(custommiddleware.GzipMiddleware)

	authenticate := h.authMiddleware.Middleware
	admin := h.authMiddleware.RequireAdmin

	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Get("/{id}", h.GetCustomer)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})
	})

	r.Route("/api/genres", func(r chi.Router) {
		r.Get("/", h.ListGenres)
		r.Get("/{id}", h.GetGenre)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", h.CreateGenre)
			r.Put("/{id}", h.UpdateGenre)
			r.With(admin).Delete("/{id}", h.DeleteGenre)
		})
	})

	r.Route("/api/movies", func(r chi.Router) {
		r.Get("/", h.ListMovies)
		r.Get("/{id}", h.GetMovie)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, admin)

			r.Post("/", h.CreateMovie)
			r.Put("/{id}", h.UpdateMovie)
			r.Delete("/{id}", h.DeleteMovie)
		})
	})

	r.Route("/api/rentals", func(r chi.Router) {
		r.Get("/", h.ListRentals)
		r.Get("/{id}", h.GetRental)
		r.With(authenticate).Post("/", h.CreateRental)
	})

	r.With(authenticate).Post("/api/returns", h.ProcessReturn)

	r.With(h.authLimiter.Middleware).Post("/api/auth", h.Login)

	r.Route("/api/users", func(r chi.Router) {
		r.With(h.authLimiter.Middleware).Post("/", h.Register)
		r.With(authenticate).Get("/me", h.Me)
	})

	r.Get("/healthz", h.Health)
	if h.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
