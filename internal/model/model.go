// Package model содержит доменные сущности сервиса проката видео.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer представляет клиента видеопроката.
type Customer struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	IsGold bool      `json:"isGold"`
}

// Genre описывает жанр фильма.
type Genre struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

// GenreSnapshot: копия полей жанра, сохранённая в фильме на момент записи.
// Со временем не синхронизируется с исходным жанром.
type GenreSnapshot struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

// Snapshot возвращает копию полей жанра для встраивания в фильм.
func (g Genre) Snapshot() GenreSnapshot {
	return GenreSnapshot{ID: g.ID, Name: g.Name}
}

// Movie описывает фильм и его остаток на складе.
type Movie struct {
	ID              uuid.UUID     `json:"_id"`
	Title           string        `json:"title"`
	Genre           GenreSnapshot `json:"genre"`
	NumberInStock   int           `json:"numberInStock"`
	DailyRentalRate float64       `json:"dailyRentalRate"`
}

// InStock сообщает, есть ли фильм в наличии.
func (m Movie) InStock() bool {
	return m.NumberInStock > 0
}

// User представляет зарегистрированного пользователя API.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
}

// CustomerSnapshot: копия полей клиента внутри проката.
type CustomerSnapshot struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// MovieSnapshot: копия полей фильма внутри проката.
type MovieSnapshot struct {
	ID              uuid.UUID `json:"_id"`
	Title           string    `json:"title"`
	DailyRentalRate float64   `json:"dailyRentalRate"`
}

// Rental описывает факт выдачи фильма клиенту.
//
// Прокат открыт, пока DateReturned не задан. После обработки возврата
// прокат закрыт окончательно.
type Rental struct {
	ID           uuid.UUID        `json:"_id"`
	Customer     CustomerSnapshot `json:"customer"`
	Movie        MovieSnapshot    `json:"movie"`
	DateOut      time.Time        `json:"dateOut"`
	DateReturned *time.Time       `json:"dateReturned,omitempty"`
	RentalFee    *float64         `json:"rentalFee,omitempty"`
}

// Closed сообщает, обработан ли уже возврат.
func (r Rental) Closed() bool {
	return r.DateReturned != nil
}

// NewRental создаёт открытый прокат со снимками клиента и фильма.
func NewRental(c Customer, m Movie, now time.Time) Rental {
	return Rental{
		ID: uuid.New(),
		Customer: CustomerSnapshot{
			ID:    c.ID,
			Name:  c.Name,
			Phone: c.Phone,
		},
		Movie: MovieSnapshot{
			ID:              m.ID,
			Title:           m.Title,
			DailyRentalRate: m.DailyRentalRate,
		},
		DateOut: now,
	}
}
