package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/model"
	"github.com/mmeshcher/vidly/internal/repository"
	"github.com/mmeshcher/vidly/internal/validation"
)

// ListRentals возвращает все прокаты, начиная с самых свежих.
func (s *Service) ListRentals(ctx context.Context) ([]model.Rental, error) {
	return s.repo.ListRentals(ctx)
}

// GetRental возвращает прокат по идентификатору.
func (s *Service) GetRental(ctx context.Context, id string) (*model.Rental, error) {
	parsed, err := parseID(entityRental, id)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.GetRental(ctx, parsed)
	if err != nil {
		return nil, missing(err, entityRental, id)
	}
	return r, nil
}

// rentalScope выполняет шаги выдачи или возврата. Без Transactions каждый шаг
// сохраняется отдельно: параллельные выдачи последней копии могут увести
// остаток в минус. С Transactions шаги выполняются в одной транзакции.
func (s *Service) rentalScope(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.transactions {
		return s.repo.InTx(ctx, fn)
	}
	return fn(ctx)
}

// CreateRental выдаёт фильм клиенту.
//
// Наличие проверяется до уменьшения остатка. Прокат сохраняется раньше, чем
// уменьшается остаток, так что сбой между шагами оставляет прокат без
// списанной копии, а не теряет запись о прокате.
func (s *Service) CreateRental(ctx context.Context, in model.RentalInput) (*model.Rental, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	customerID, _ := validation.ParseID(in.CustomerID)
	movieID, _ := validation.ParseID(in.MovieID)

	var created model.Rental
	err := s.rentalScope(ctx, func(ctx context.Context) error {
		customer, err := s.repo.GetCustomer(ctx, customerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidCustomer
			}
			return err
		}

		movie, err := s.movieForRental(ctx, movieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidMovie
			}
			return err
		}

		if !movie.InStock() {
			return ErrMovieNotInStock
		}

		rental := model.NewRental(*customer, *movie, s.now())
		if err := s.repo.CreateRental(ctx, rental); err != nil {
			return err
		}

		if err := s.repo.AdjustMovieStock(ctx, movie.ID, -1); err != nil {
			return fmt.Errorf("decrement stock of movie %s: %w", movie.ID, err)
		}

		created = rental
		return nil
	})
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}

	s.recorder.RentalCreated()
	return &created, nil
}

// ProcessReturn закрывает открытый прокат пары клиент–фильм, рассчитывает
// стоимость и возвращает копию на склад. Закрытый прокат повторно не
// обрабатывается, и остаток при этом не меняется.
func (s *Service) ProcessReturn(ctx context.Context, in model.RentalInput) (*model.Rental, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	customerID, _ := validation.ParseID(in.CustomerID)
	movieID, _ := validation.ParseID(in.MovieID)

	var closed model.Rental
	err := s.rentalScope(ctx, func(ctx context.Context) error {
		rental, err := s.repo.LookupRental(ctx, customerID, movieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRentalNotFound
			}
			return err
		}

		if rental.Closed() {
			return ErrReturnAlreadyProcessed
		}

		now := s.now()
		fee := s.fees.Fee(rental.DateOut, now, rental.Movie.DailyRentalRate)

		if err := s.repo.CloseRental(ctx, rental.ID, now, fee); err != nil {
			if errors.Is(err, repository.ErrRentalClosed) {
				return ErrReturnAlreadyProcessed
			}
			return err
		}

		// Фильм мог быть удалён после выдачи; прокат всё равно закрывается.
		if err := s.repo.AdjustMovieStock(ctx, rental.Movie.ID, 1); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("increment stock of movie %s: %w", rental.Movie.ID, err)
		}

		rental.DateReturned = &now
		rental.RentalFee = &fee
		closed = *rental
		return nil
	})
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}

	s.recorder.RentalReturned(*closed.RentalFee)
	return &closed, nil
}

func (s *Service) movieForRental(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	if s.transactions {
		return s.repo.GetMovieForUpdate(ctx, id)
	}
	return s.repo.GetMovie(ctx, id)
}

func (s *Service) recordRejection(err error) {
	switch {
	case errors.Is(err, ErrInvalidCustomer):
		s.recorder.RentalRejected("invalid_customer")
	case errors.Is(err, ErrInvalidMovie):
		s.recorder.RentalRejected("invalid_movie")
	case errors.Is(err, ErrMovieNotInStock):
		s.recorder.RentalRejected("not_in_stock")
	case errors.Is(err, ErrRentalNotFound):
		s.recorder.RentalRejected("rental_not_found")
	case errors.Is(err, ErrReturnAlreadyProcessed):
		s.recorder.RentalRejected("already_returned")
	}
}
