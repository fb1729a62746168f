package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/vidly/internal/model"
)

// ListRentals возвращает все прокаты, начиная с самых свежих.
func (h *Handler) ListRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.service.ListRentals(r.Context())
	h.respond(w, r, rentals, err)
}

// GetRental возвращает прокат по идентификатору из пути.
func (h *Handler) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.service.GetRental(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, rental, err)
}

// CreateRental выдаёт фильм клиенту.
func (h *Handler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var in model.RentalInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	rental, err := h.service.CreateRental(r.Context(), in)
	h.respond(w, r, rental, err)
}

// ProcessReturn принимает фильм обратно и возвращает закрытый прокат со стоимостью.
func (h *Handler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	var in model.RentalInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	rental, err := h.service.ProcessReturn(r.Context(), in)
	h.respond(w, r, rental, err)
}
