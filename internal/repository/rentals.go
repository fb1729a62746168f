package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/model"
)

const rentalColumns = `id, customer_id, customer_name, customer_phone,
	movie_id, movie_title, movie_daily_rental_rate,
	date_out, date_returned, rental_fee`

// ListRentals возвращает все прокаты, начиная с самых свежих.
func (r *PostgresRepository) ListRentals(ctx context.Context) ([]model.Rental, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY date_out DESC`)
	if err != nil {
		return nil, fmt.Errorf("select rentals: %w", err)
	}

	res, err := collect(rows, scanRental)
	if err != nil {
		return nil, fmt.Errorf("scan rentals: %w", err)
	}
	return res, nil
}

// GetRental возвращает прокат по идентификатору.
func (r *PostgresRepository) GetRental(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id)
	rental, err := scanRental(row)
	if err != nil {
		return nil, notFound(err, "get rental")
	}
	return &rental, nil
}

// CreateRental сохраняет новый прокат со снимками клиента и фильма.
func (r *PostgresRepository) CreateRental(ctx context.Context, rental model.Rental) error {
	_, err := r.q(ctx).Exec(ctx,
		`INSERT INTO rentals (`+rentalColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rental.ID,
		rental.Customer.ID, rental.Customer.Name, rental.Customer.Phone,
		rental.Movie.ID, rental.Movie.Title, rental.Movie.DailyRentalRate,
		rental.DateOut, rental.DateReturned, rental.RentalFee,
	)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

// LookupRental ищет прокат пары клиент–фильм. Открытый прокат предпочтительнее
// закрытого, среди равных выбирается самый свежий.
func (r *PostgresRepository) LookupRental(ctx context.Context, customerID, movieID uuid.UUID) (*model.Rental, error) {
	row := r.q(ctx).QueryRow(ctx,
		`SELECT `+rentalColumns+`
		 FROM rentals
		 WHERE customer_id = $1 AND movie_id = $2
		 ORDER BY (date_returned IS NULL) DESC, date_out DESC
		 LIMIT 1`,
		customerID, movieID,
	)
	rental, err := scanRental(row)
	if err != nil {
		return nil, notFound(err, "lookup rental")
	}
	return &rental, nil
}

// CloseRental проставляет дату возврата и стоимость. Обновляется только открытый
// прокат, поэтому повторное закрытие даёт ErrRentalClosed.
func (r *PostgresRepository) CloseRental(ctx context.Context, id uuid.UUID, returned time.Time, fee float64) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE rentals SET date_returned = $2, rental_fee = $3
		 WHERE id = $1 AND date_returned IS NULL`,
		id, returned, fee,
	)
	if err != nil {
		return fmt.Errorf("close rental: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRentalClosed
	}
	return nil
}

func scanRental(row scanner) (model.Rental, error) {
	var rental model.Rental
	err := row.Scan(
		&rental.ID,
		&rental.Customer.ID, &rental.Customer.Name, &rental.Customer.Phone,
		&rental.Movie.ID, &rental.Movie.Title, &rental.Movie.DailyRentalRate,
		&rental.DateOut, &rental.DateReturned, &rental.RentalFee,
	)
	return rental, err
}
