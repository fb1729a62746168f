package model

// Входные данные запросов. Теги validate являются единственным местом, где описаны
// ограничения полей; сущности создаются только из проверенных входных данных.

// CustomerInput: тело запроса на создание или замену клиента.
type CustomerInput struct {
	Name   string `json:"name" validate:"required,min=6,max=16"`
	Phone  string `json:"phone" validate:"required,min=6,max=16"`
	IsGold bool   `json:"isGold"`
}

// GenreInput: тело запроса на создание или замену жанра.
type GenreInput struct {
	Name string `json:"name" validate:"required,min=5,max=50"`
}

// MovieInput: тело запроса на создание или замену фильма.
type MovieInput struct {
	Title           string   `json:"title" validate:"required,min=6,max=50"`
	GenreID         string   `json:"genreId" validate:"required,identifier"`
	NumberInStock   *int     `json:"numberInStock" validate:"required,min=0,max=200"`
	DailyRentalRate *float64 `json:"dailyRentalRate" validate:"required,min=0,max=200,cents"`
}

// RentalInput: тело запросов на выдачу и возврат фильма.
type RentalInput struct {
	CustomerID string `json:"customerId" validate:"required,identifier"`
	MovieID    string `json:"movieId" validate:"required,identifier"`
}

// UserInput: тело запроса на регистрацию пользователя.
type UserInput struct {
	Name     string `json:"name" validate:"required,min=5,max=50"`
	Email    string `json:"email" validate:"required,min=5,max=255,email"`
	Password string `json:"password" validate:"required,min=5,max=72,maxbytes=72"`
}

// Credentials: тело запроса на получение токена.
type Credentials struct {
	Email    string `json:"email" validate:"required,min=5,max=255,email"`
	Password string `json:"password" validate:"required,min=5,max=72,maxbytes=72"`
}
