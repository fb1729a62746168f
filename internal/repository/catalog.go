package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/model"
)

// ListCustomers возвращает всех клиентов, отсортированных по имени.
func (r *PostgresRepository) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT id, name, phone, is_gold FROM customers ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}

	res, err := collect(rows, scanCustomer)
	if err != nil {
		return nil, fmt.Errorf("scan customers: %w", err)
	}
	return res, nil
}

// GetCustomer возвращает клиента по идентификатору.
func (r *PostgresRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	row := r.q(ctx).QueryRow(ctx,
		`SELECT id, name, phone, is_gold FROM customers WHERE id = $1`,
		id,
	)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, "get customer")
	}
	return &c, nil
}

// CreateCustomer сохраняет нового клиента.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, c model.Customer) error {
	_, err := r.q(ctx).Exec(ctx,
		`INSERT INTO customers (id, name, phone, is_gold) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Phone, c.IsGold,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// UpdateCustomer заменяет изменяемые поля клиента и возвращает обновлённую запись.
func (r *PostgresRepository) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	row := r.q(ctx).QueryRow(ctx,
		`UPDATE customers SET name = $2, phone = $3, is_gold = $4
		 WHERE id = $1
		 RETURNING id, name, phone, is_gold`,
		c.ID, c.Name, c.Phone, c.IsGold,
	)
	updated, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, "update customer")
	}
	return &updated, nil
}

// DeleteCustomer удаляет клиента и возвращает удалённую запись.
func (r *PostgresRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	row := r.q(ctx).QueryRow(ctx,
		`DELETE FROM customers WHERE id = $1 RETURNING id, name, phone, is_gold`,
		id,
	)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, notFound(err, "delete customer")
	}
	return &c, nil
}

func scanCustomer(row scanner) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.IsGold)
	return c, err
}

// ListGenres возвращает все жанры, отсортированные по названию.
func (r *PostgresRepository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select genres: %w", err)
	}

	res, err := collect(rows, scanGenre)
	if err != nil {
		return nil, fmt.Errorf("scan genres: %w", err)
	}
	return res, nil
}

// GetGenre возвращает жанр по идентификатору.
func (r *PostgresRepository) GetGenre(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT id, name FROM genres WHERE id = $1`, id)
	g, err := scanGenre(row)
	if err != nil {
		return nil, notFound(err, "get genre")
	}
	return &g, nil
}

// CreateGenre сохраняет новый жанр.
func (r *PostgresRepository) CreateGenre(ctx context.Context, g model.Genre) error {
	_, err := r.q(ctx).Exec(ctx, `INSERT INTO genres (id, name) VALUES ($1, $2)`, g.ID, g.Name)
	if err != nil {
		return fmt.Errorf("insert genre: %w", err)
	}
	return nil
}

// UpdateGenre заменяет название жанра. Снимки жанра в фильмах не меняются.
func (r *PostgresRepository) UpdateGenre(ctx context.Context, g model.Genre) (*model.Genre, error) {
	row := r.q(ctx).QueryRow(ctx,
		`UPDATE genres SET name = $2 WHERE id = $1 RETURNING id, name`,
		g.ID, g.Name,
	)
	updated, err := scanGenre(row)
	if err != nil {
		return nil, notFound(err, "update genre")
	}
	return &updated, nil
}

// DeleteGenre удаляет жанр и возвращает удалённую запись.
func (r *PostgresRepository) DeleteGenre(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	row := r.q(ctx).QueryRow(ctx, `DELETE FROM genres WHERE id = $1 RETURNING id, name`, id)
	g, err := scanGenre(row)
	if err != nil {
		return nil, notFound(err, "delete genre")
	}
	return &g, nil
}

func scanGenre(row scanner) (model.Genre, error) {
	var g model.Genre
	err := row.Scan(&g.ID, &g.Name)
	return g, err
}
