package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/model"
	"github.com/mmeshcher/vidly/internal/repository"
)

// memoryRepo: хранилище в памяти для тестов сервиса. Каждая операция
// атомарна сама по себе; InTx сериализует целые блоки, как блокировка строки.
type memoryRepo struct {
	mu   sync.Mutex
	txMu sync.Mutex

	customers map[uuid.UUID]model.Customer
	genres    map[uuid.UUID]model.Genre
	movies    map[uuid.UUID]model.Movie
	users     map[uuid.UUID]model.User
	rentals   map[uuid.UUID]model.Rental

	// afterGetMovie вызывается после чтения фильма, до возврата результата.
	afterGetMovie func()
	failWith      error
	txCalls       int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		customers: map[uuid.UUID]model.Customer{},
		genres:    map[uuid.UUID]model.Genre{},
		movies:    map[uuid.UUID]model.Movie{},
		users:     map[uuid.UUID]model.User{},
		rentals:   map[uuid.UUID]model.Rental{},
	}
}

type memoryTxKey struct{}

func (m *memoryRepo) Close() error                 { return nil }
func (m *memoryRepo) Ping(ctx context.Context) error { return m.failWith }

func (m *memoryRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	m.txCalls++
	m.mu.Unlock()

	return fn(context.WithValue(ctx, memoryTxKey{}, true))
}

func (m *memoryRepo) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (m *memoryRepo) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memoryRepo) CreateCustomer(ctx context.Context, c model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
	return nil
}

func (m *memoryRepo) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.customers[c.ID] = c
	return &c, nil
}

func (m *memoryRepo) DeleteCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.customers, id)
	return &c, nil
}

func (m *memoryRepo) ListGenres(ctx context.Context) ([]model.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.Genre, 0, len(m.genres))
	for _, g := range m.genres {
		res = append(res, g)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (m *memoryRepo) GetGenre(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.genres[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (m *memoryRepo) CreateGenre(ctx context.Context, g model.Genre) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genres[g.ID] = g
	return nil
}

func (m *memoryRepo) UpdateGenre(ctx context.Context, g model.Genre) (*model.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.genres[g.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.genres[g.ID] = g
	return &g, nil
}

func (m *memoryRepo) DeleteGenre(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.genres[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.genres, id)
	return &g, nil
}

func (m *memoryRepo) ListMovies(ctx context.Context) ([]model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.Movie, 0, len(m.movies))
	for _, mv := range m.movies {
		res = append(res, mv)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Title < res[j].Title })
	return res, nil
}

func (m *memoryRepo) GetMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	m.mu.Lock()
	mv, ok := m.movies[id]
	hook := m.afterGetMovie
	m.mu.Unlock()

	if !ok {
		return nil, repository.ErrNotFound
	}
	if hook != nil {
		hook()
	}
	return &mv, nil
}

func (m *memoryRepo) GetMovieForUpdate(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	return m.GetMovie(ctx, id)
}

func (m *memoryRepo) CreateMovie(ctx context.Context, mv model.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movies[mv.ID] = mv
	return nil
}

func (m *memoryRepo) UpdateMovie(ctx context.Context, mv model.Movie) (*model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.movies[mv.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.movies[mv.ID] = mv
	return &mv, nil
}

func (m *memoryRepo) DeleteMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mv, ok := m.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.movies, id)
	return &mv, nil
}

func (m *memoryRepo) AdjustMovieStock(ctx context.Context, id uuid.UUID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mv, ok := m.movies[id]
	if !ok {
		return repository.ErrNotFound
	}
	mv.NumberInStock += delta
	m.movies[id] = mv
	return nil
}

func (m *memoryRepo) CreateUser(ctx context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryRepo) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memoryRepo) ListRentals(ctx context.Context) ([]model.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.Rental, 0, len(m.rentals))
	for _, r := range m.rentals {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].DateOut.After(res[j].DateOut) })
	return res, nil
}

func (m *memoryRepo) GetRental(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memoryRepo) CreateRental(ctx context.Context, r model.Rental) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rentals[r.ID] = r
	return nil
}

func (m *memoryRepo) LookupRental(ctx context.Context, customerID, movieID uuid.UUID) (*model.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *model.Rental
	for _, r := range m.rentals {
		if r.Customer.ID != customerID || r.Movie.ID != movieID {
			continue
		}
		r := r
		switch {
		case best == nil:
			best = &r
		case best.Closed() && !r.Closed():
			best = &r
		case best.Closed() == r.Closed() && r.DateOut.After(best.DateOut):
			best = &r
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

func (m *memoryRepo) CloseRental(ctx context.Context, id uuid.UUID, returned time.Time, fee float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok || r.Closed() {
		return repository.ErrRentalClosed
	}
	r.DateReturned = &returned
	r.RentalFee = &fee
	m.rentals[id] = r
	return nil
}

func (m *memoryRepo) stock(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.movies[id].NumberInStock
}

var errStoreDown = errors.New("store unavailable")
