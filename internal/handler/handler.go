// Package handler содержит HTTP-обработчики API сервиса проката видео.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mmeshcher/vidly/internal/metrics"
	"github.com/mmeshcher/vidly/internal/middleware"
	"github.com/mmeshcher/vidly/internal/model"
	"github.com/mmeshcher/vidly/internal/service"
	"github.com/mmeshcher/vidly/internal/validation"
)

const maxBodyBytes = 1 << 20

const msgInternal = "Internal server error."

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Ping(ctx context.Context) error

	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in model.CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) (*model.Customer, error)

	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id string) (*model.Genre, error)
	CreateGenre(ctx context.Context, in model.GenreInput) (*model.Genre, error)
	UpdateGenre(ctx context.Context, id string, in model.GenreInput) (*model.Genre, error)
	DeleteGenre(ctx context.Context, id string) (*model.Genre, error)

	ListMovies(ctx context.Context) ([]model.Movie, error)
	GetMovie(ctx context.Context, id string) (*model.Movie, error)
	CreateMovie(ctx context.Context, in model.MovieInput) (*model.Movie, error)
	UpdateMovie(ctx context.Context, id string, in model.MovieInput) (*model.Movie, error)
	DeleteMovie(ctx context.Context, id string) (*model.Movie, error)

	ListRentals(ctx context.Context) ([]model.Rental, error)
	GetRental(ctx context.Context, id string) (*model.Rental, error)
	CreateRental(ctx context.Context, in model.RentalInput) (*model.Rental, error)
	ProcessReturn(ctx context.Context, in model.RentalInput) (*model.Rental, error)

	RegisterUser(ctx context.Context, in model.UserInput) (*model.User, string, error)
	Authenticate(ctx context.Context, in model.Credentials) (string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Options задаёт необязательные зависимости обработчика.
type Options struct {
	// Metrics считает HTTP-запросы; nil отключает учёт.
	Metrics *metrics.HTTPMetrics
	// Gatherer отдаётся на /metrics; nil отключает маршрут.
	Gatherer prometheus.Gatherer
	// AuthLimiter ограничивает частоту запросов на выдачу токенов.
	AuthLimiter *middleware.RateLimiter
}

// Handler реализует HTTP-обработчики API сервиса проката.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.HTTPMetrics
	gatherer       prometheus.Gatherer
	authLimiter    *middleware.RateLimiter
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		metrics:        opts.Metrics,
		gatherer:       opts.Gatherer,
		authLimiter:    opts.AuthLimiter,
	}
}

// businessErrors сопоставляет бизнес-отказы сервиса с ответами клиенту.
var businessErrors = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrInvalidGenre, http.StatusBadRequest, "Invalid genre."},
	{service.ErrInvalidCustomer, http.StatusBadRequest, "Invalid customer."},
	{service.ErrInvalidMovie, http.StatusBadRequest, "Invalid movie."},
	{service.ErrMovieNotInStock, http.StatusBadRequest, "Movie not in stock."},
	{service.ErrRentalNotFound, http.StatusNotFound, "Rental not found."},
	{service.ErrReturnAlreadyProcessed, http.StatusBadRequest, "Return already processed."},
	{service.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password."},
	{service.ErrUserExists, http.StatusBadRequest, "User already registered."},
}

// writeError: единая граница ошибок: клиентские ошибки возвращаются с
// сообщением, всё остальное журналируется и отдаётся как 500 без деталей.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeText(w, http.StatusBadRequest, verr.Message)
		return
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		writeText(w, http.StatusNotFound, nf.Error())
		return
	}

	for _, be := range businessErrors {
		if errors.Is(err, be.err) {
			writeText(w, be.status, be.message)
			return
		}
	}

	h.logger.Error("request failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	writeText(w, http.StatusInternalServerError, msgInternal)
}

// respond отдаёт v как JSON со статусом 200 либо ошибку.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response", zap.Error(err))
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return validation.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), dst)
}

// pathID возвращает идентификатор из пути. Некорректный идентификатор
// означает отсутствующую сущность ещё до чтения тела.
func pathID(r *http.Request, entity string) (string, error) {
	id := chi.URLParam(r, "id")
	if !validation.IsValidID(id) {
		return "", &service.NotFoundError{Entity: entity, ID: id}
	}
	return id, nil
}
