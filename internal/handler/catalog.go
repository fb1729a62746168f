package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/vidly/internal/model"
)

// ListCustomers возвращает всех клиентов.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	h.respond(w, r, customers, err)
}

// GetCustomer возвращает клиента по идентификатору из пути.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, c, err)
}

// CreateCustomer создаёт клиента.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in model.CustomerInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.service.CreateCustomer(r.Context(), in)
	h.respond(w, r, c, err)
}

// UpdateCustomer заменяет поля клиента.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in model.CustomerInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.service.UpdateCustomer(r.Context(), id, in)
	h.respond(w, r, c, err)
}

// DeleteCustomer удаляет клиента.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.DeleteCustomer(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, c, err)
}

// ListGenres возвращает все жанры.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.ListGenres(r.Context())
	h.respond(w, r, genres, err)
}

// GetGenre возвращает жанр по идентификатору из пути.
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.GetGenre(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, g, err)
}

// CreateGenre создаёт жанр.
func (h *Handler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var in model.GenreInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	g, err := h.service.CreateGenre(r.Context(), in)
	h.respond(w, r, g, err)
}

// UpdateGenre заменяет название жанра.
func (h *Handler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "genre")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in model.GenreInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	g, err := h.service.UpdateGenre(r.Context(), id, in)
	h.respond(w, r, g, err)
}

// DeleteGenre удаляет жанр.
func (h *Handler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.DeleteGenre(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, g, err)
}

// ListMovies возвращает все фильмы.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.ListMovies(r.Context())
	h.respond(w, r, movies, err)
}

// GetMovie возвращает фильм по идентификатору из пути.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMovie(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, m, err)
}

// CreateMovie создаёт фильм.
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var in model.MovieInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.service.CreateMovie(r.Context(), in)
	h.respond(w, r, m, err)
}

// UpdateMovie заменяет поля фильма.
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movie")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in model.MovieInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.service.UpdateMovie(r.Context(), id, in)
	h.respond(w, r, m, err)
}

// DeleteMovie удаляет фильм.
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, m, err)
}
