// Package service реализует бизнес-логику сервиса проката видео.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/auth"
	"github.com/mmeshcher/vidly/internal/model"
	"github.com/mmeshcher/vidly/internal/validation"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	CreateCustomer(ctx context.Context, c model.Customer) error
	UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)

	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id uuid.UUID) (*model.Genre, error)
	CreateGenre(ctx context.Context, g model.Genre) error
	UpdateGenre(ctx context.Context, g model.Genre) (*model.Genre, error)
	DeleteGenre(ctx context.Context, id uuid.UUID) (*model.Genre, error)

	ListMovies(ctx context.Context) ([]model.Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	GetMovieForUpdate(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	CreateMovie(ctx context.Context, m model.Movie) error
	UpdateMovie(ctx context.Context, m model.Movie) (*model.Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	AdjustMovieStock(ctx context.Context, id uuid.UUID, delta int) error

	CreateUser(ctx context.Context, u model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)

	ListRentals(ctx context.Context) ([]model.Rental, error)
	GetRental(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	CreateRental(ctx context.Context, r model.Rental) error
	LookupRental(ctx context.Context, customerID, movieID uuid.UUID) (*model.Rental, error)
	CloseRental(ctx context.Context, id uuid.UUID, returned time.Time, fee float64) error
}

// RentalRecorder получает события жизненного цикла проката.
type RentalRecorder interface {
	RentalCreated()
	RentalReturned(fee float64)
	RentalRejected(reason string)
}

// Бизнес-отказы.
var (
	ErrInvalidGenre           = errors.New("invalid genre")
	ErrInvalidCustomer        = errors.New("invalid customer")
	ErrInvalidMovie           = errors.New("invalid movie")
	ErrMovieNotInStock        = errors.New("movie not in stock")
	ErrRentalNotFound         = errors.New("rental not found")
	ErrReturnAlreadyProcessed = errors.New("return already processed")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserExists             = errors.New("user already registered")
)

// ErrNotFound: общий признак отсутствующей сущности, к нему разворачивается NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError сообщает, что сущность с указанным идентификатором не найдена.
// Некорректный идентификатор и отсутствующая запись не различаются.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("The %s with the given ID (%s) was not found.", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Options задаёт необязательные параметры сервиса.
type Options struct {
	// Transactions включает выполнение выдачи и возврата в одной транзакции
	// с блокировкой строки фильма. По умолчанию шаги выполняются раздельно.
	Transactions bool
	Fees         FeePolicy
	Recorder     RentalRecorder
	Now          func() time.Time
}

// Service содержит бизнес-логику сервиса проката.
type Service struct {
	repo         Repository
	tokens       *auth.TokenManager
	fees         FeePolicy
	transactions bool
	recorder     RentalRecorder
	now          func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием и менеджером токенов.
func NewService(repo Repository, tokens *auth.TokenManager, opts Options) *Service {
	s := &Service{
		repo:         repo,
		tokens:       tokens,
		fees:         opts.Fees,
		transactions: opts.Transactions,
		recorder:     opts.Recorder,
		now:          opts.Now,
	}
	if s.fees.Rounding == "" {
		s.fees = DefaultFeePolicy()
	}
	if s.recorder == nil {
		s.recorder = noopRecorder{}
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func parseID(entity, id string) (uuid.UUID, error) {
	parsed, ok := validation.ParseID(id)
	if !ok {
		return uuid.Nil, &NotFoundError{Entity: entity, ID: id}
	}
	return parsed, nil
}

type noopRecorder struct{}

func (noopRecorder) RentalCreated() {}

func (noopRecorder) RentalReturned(float64) {}

func (noopRecorder) RentalRejected(string) {}
