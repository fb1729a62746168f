package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/model"
)

const movieColumns = `id, title, genre_id, genre_name, number_in_stock, daily_rental_rate`

// ListMovies возвращает все фильмы, отсортированные по названию.
func (r *PostgresRepository) ListMovies(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("select movies: %w", err)
	}

	res, err := collect(rows, scanMovie)
	if err != nil {
		return nil, fmt.Errorf("scan movies: %w", err)
	}
	return res, nil
}

// GetMovie возвращает фильм по идентификатору.
func (r *PostgresRepository) GetMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	m, err := scanMovie(row)
	if err != nil {
		return nil, notFound(err, "get movie")
	}
	return &m, nil
}

// GetMovieForUpdate возвращает фильм и блокирует его строку до конца транзакции.
// Вне InTx блокировка снимается сразу после запроса.
func (r *PostgresRepository) GetMovieForUpdate(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1 FOR UPDATE`, id)
	m, err := scanMovie(row)
	if err != nil {
		return nil, notFound(err, "get movie for update")
	}
	return &m, nil
}

// CreateMovie сохраняет новый фильм вместе со снимком жанра.
func (r *PostgresRepository) CreateMovie(ctx context.Context, m model.Movie) error {
	_, err := r.q(ctx).Exec(ctx,
		`INSERT INTO movies (`+movieColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate,
	)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// UpdateMovie заменяет изменяемые поля фильма и возвращает обновлённую запись.
func (r *PostgresRepository) UpdateMovie(ctx context.Context, m model.Movie) (*model.Movie, error) {
	row := r.q(ctx).QueryRow(ctx,
		`UPDATE movies
		 SET title = $2, genre_id = $3, genre_name = $4, number_in_stock = $5, daily_rental_rate = $6
		 WHERE id = $1
		 RETURNING `+movieColumns,
		m.ID, m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate,
	)
	updated, err := scanMovie(row)
	if err != nil {
		return nil, notFound(err, "update movie")
	}
	return &updated, nil
}

// DeleteMovie удаляет фильм и возвращает удалённую запись.
func (r *PostgresRepository) DeleteMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	row := r.q(ctx).QueryRow(ctx, `DELETE FROM movies WHERE id = $1 RETURNING `+movieColumns, id)
	m, err := scanMovie(row)
	if err != nil {
		return nil, notFound(err, "delete movie")
	}
	return &m, nil
}

// AdjustMovieStock изменяет остаток фильма на delta одной командой UPDATE.
func (r *PostgresRepository) AdjustMovieStock(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE movies SET number_in_stock = number_in_stock + $2 WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust movie stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMovie(row scanner) (model.Movie, error) {
	var m model.Movie
	err := row.Scan(&m.ID, &m.Title, &m.Genre.ID, &m.Genre.Name, &m.NumberInStock, &m.DailyRentalRate)
	return m, err
}
