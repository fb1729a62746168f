package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/model"
	"github.com/mmeshcher/vidly/internal/repository"
	"github.com/mmeshcher/vidly/internal/validation"
)

const (
	entityCustomer = "customer"
	entityGenre    = "genre"
	entityMovie    = "movie"
	entityRental   = "rental"
	entityUser     = "user"
)

// missing заменяет repository.ErrNotFound на NotFoundError с исходным идентификатором.
func missing(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// ListCustomers возвращает всех клиентов, отсортированных по имени.
func (s *Service) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// GetCustomer возвращает клиента по идентификатору.
func (s *Service) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	parsed, err := parseID(entityCustomer, id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetCustomer(ctx, parsed)
	if err != nil {
		return nil, missing(err, entityCustomer, id)
	}
	return c, nil
}

// CreateCustomer проверяет входные данные и сохраняет нового клиента.
func (s *Service) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c := model.Customer{
		ID:     uuid.New(),
		Name:   in.Name,
		Phone:  in.Phone,
		IsGold: in.IsGold,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCustomer заменяет поля клиента. Отсутствующий isGold становится false.
func (s *Service) UpdateCustomer(ctx context.Context, id string, in model.CustomerInput) (*model.Customer, error) {
	parsed, err := parseID(entityCustomer, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c, err := s.repo.UpdateCustomer(ctx, model.Customer{
		ID:     parsed,
		Name:   in.Name,
		Phone:  in.Phone,
		IsGold: in.IsGold,
	})
	if err != nil {
		return nil, missing(err, entityCustomer, id)
	}
	return c, nil
}

// DeleteCustomer удаляет клиента и возвращает удалённую запись.
func (s *Service) DeleteCustomer(ctx context.Context, id string) (*model.Customer, error) {
	parsed, err := parseID(entityCustomer, id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.DeleteCustomer(ctx, parsed)
	if err != nil {
		return nil, missing(err, entityCustomer, id)
	}
	return c, nil
}

// ListGenres возвращает все жанры, отсортированные по названию.
func (s *Service) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

// GetGenre возвращает жанр по идентификатору.
func (s *Service) GetGenre(ctx context.Context, id string) (*model.Genre, error) {
	parsed, err := parseID(entityGenre, id)
	if err != nil {
		return nil, err
	}
	g, err := s.repo.GetGenre(ctx, parsed)
	if err != nil {
		return nil, missing(err, entityGenre, id)
	}
	return g, nil
}

// CreateGenre проверяет входные данные и сохраняет новый жанр.
func (s *Service) CreateGenre(ctx context.Context, in model.GenreInput) (*model.Genre, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	g := model.Genre{ID: uuid.New(), Name: in.Name}
	if err := s.repo.CreateGenre(ctx, g); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateGenre заменяет название жанра.
func (s *Service) UpdateGenre(ctx context.Context, id string, in model.GenreInput) (*model.Genre, error) {
	parsed, err := parseID(entityGenre, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	g, err := s.repo.UpdateGenre(ctx, model.Genre{ID: parsed, Name: in.Name})
	if err != nil {
		return nil, missing(err, entityGenre, id)
	}
	return g, nil
}

// DeleteGenre удаляет жанр. Фильмы сохраняют свои снимки жанра.
func (s *Service) DeleteGenre(ctx context.Context, id string) (*model.Genre, error) {
	parsed, err := parseID(entityGenre, id)
	if err != nil {
		return nil, err
	}
	g, err := s.repo.DeleteGenre(ctx, parsed)
	if err != nil {
		return nil, missing(err, entityGenre, id)
	}
	return g, nil
}

// ListMovies возвращает все фильмы, отсортированные по названию.
func (s *Service) ListMovies(ctx context.Context) ([]model.Movie, error) {
	return s.repo.ListMovies(ctx)
}

// GetMovie возвращает фильм по идентификатору.
func (s *Service) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	parsed, err := parseID(entityMovie, id)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.GetMovie(ctx, parsed)
	if err != nil {
		return nil, missing(err, entityMovie, id)
	}
	return m, nil
}

// CreateMovie проверяет входные данные, разрешает жанр и сохраняет фильм
// со снимком жанра.
func (s *Service) CreateMovie(ctx context.Context, in model.MovieInput) (*model.Movie, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	genre, err := s.resolveGenre(ctx, in.GenreID)
	if err != nil {
		return nil, err
	}

	m := movieFromInput(uuid.New(), in, genre)
	if err := s.repo.CreateMovie(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMovie заменяет поля фильма и заново снимает копию жанра.
func (s *Service) UpdateMovie(ctx context.Context, id string, in model.MovieInput) (*model.Movie, error) {
	parsed, err := parseID(entityMovie, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	genre, err := s.resolveGenre(ctx, in.GenreID)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.UpdateMovie(ctx, movieFromInput(parsed, in, genre))
	if err != nil {
		return nil, missing(err, entityMovie, id)
	}
	return m, nil
}

// DeleteMovie удаляет фильм и возвращает удалённую запись.
func (s *Service) DeleteMovie(ctx context.Context, id string) (*model.Movie, error) {
	parsed, err := parseID(entityMovie, id)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.DeleteMovie(ctx, parsed)
	if err != nil {
		return nil, missing(err, entityMovie, id)
	}
	return m, nil
}

func (s *Service) resolveGenre(ctx context.Context, id string) (*model.Genre, error) {
	parsed, ok := validation.ParseID(id)
	if !ok {
		return nil, ErrInvalidGenre
	}
	g, err := s.repo.GetGenre(ctx, parsed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidGenre
		}
		return nil, err
	}
	return g, nil
}

func movieFromInput(id uuid.UUID, in model.MovieInput, genre *model.Genre) model.Movie {
	return model.Movie{
		ID:              id,
		Title:           in.Title,
		Genre:           genre.Snapshot(),
		NumberInStock:   *in.NumberInStock,
		DailyRentalRate: *in.DailyRentalRate,
	}
}
