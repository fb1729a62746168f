// Package validation содержит функции валидации входных данных.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return IsValidID(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	// Денежные суммы хранятся с точностью до сотых.
	if err := v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		return decimal.NewFromFloat(fl.Field().Float()).Exponent() >= -2
	}); err != nil {
		panic(err)
	}
	// bcrypt принимает не более 72 байт, max считает символы.
	if err := v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	}); err != nil {
		panic(err)
	}
	return v
}

// Error описывает первое поле, не прошедшее проверку.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidID проверяет, что строка имеет форму идентификатора хранилища.
// Существование сущности не проверяется.
func IsValidID(id string) bool {
	_, ok := ParseID(id)
	return ok
}

// ParseID разбирает идентификатор в каноническом виде.
func ParseID(id string) (uuid.UUID, bool) {
	if len(id) != 36 {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// Struct проверяет структуру по тегам validate и возвращает *Error для первого
// некорректного поля.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return &Error{Field: fe.Field(), Message: message(fe)}
	}

	return fmt.Errorf("validate struct: %w", err)
}

// DecodeJSON читает тело запроса в dst. Неизвестные поля, ошибки формата и
// типов полей возвращаются как *Error; проверка ограничений выполняется через Struct.
func DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) *Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &Error{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%q must be a %s", typeErr.Field, kindName(typeErr.Type.Kind())),
		}
	}
	if field, ok := unknownField(err); ok {
		return &Error{Field: field, Message: fmt.Sprintf("%q is not allowed", field)}
	}
	if errors.Is(err, io.EOF) {
		return &Error{Message: "Request body is required."}
	}
	return &Error{Message: "Invalid request body."}
}

// unknownField извлекает имя поля из ошибки DisallowUnknownFields:
// у encoding/json для неё нет отдельного типа.
func unknownField(err error) (string, bool) {
	rest, ok := strings.CutPrefix(err.Error(), "json: unknown field ")
	if !ok {
		return "", false
	}
	field, err := strconv.Unquote(rest)
	if err != nil {
		return "", false
	}
	return field, true
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	str := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		if str {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if str {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "identifier":
		return fmt.Sprintf("%q must be a valid identifier", field)
	case "cents":
		return fmt.Sprintf("%q must have no more than 2 decimal places", field)
	case "maxbytes":
		return fmt.Sprintf("%q must not exceed %s bytes", field, fe.Param())
	}
	return fmt.Sprintf("%q is invalid", field)
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return k.String()
}
