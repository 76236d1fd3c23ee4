// Package http provides HTTP server and handler implementations.
//
// This file turns request bodies, path values and query strings into
// domain values, reporting every malformed input as a ValidationError.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"expensetracker/internal/core"
)

// ValidationError reports client input that cannot be accepted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ExpenseRequest is the JSON body of POST /expenses. Pointer fields tell a
// missing value apart from a zero one; any client-supplied id is ignored.
type ExpenseRequest struct {
	Amount   *float64 `json:"amount" validate:"required"`
	Category *string  `json:"category" validate:"required,max=200"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
}

// RequestValidator checks request bodies and renders failures in English.
type RequestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewRequestValidator builds a validator with English translations registered.
func NewRequestValidator() *RequestValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	eng := en.New()
	uni := ut.New(eng, eng)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &RequestValidator{validate: validate, trans: trans}
}

// Struct validates v, joining every translated failure into one message.
func (rv *RequestValidator) Struct(v any) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalid("invalid request: %v", err)
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, e.Translate(rv.trans))
	}
	return &ValidationError{Message: strings.Join(messages, ", ")}
}

// DecodeExpense reads, validates and converts a POST /expenses body.
func (rv *RequestValidator) DecodeExpense(r *http.Request) (core.Expense, error) {
	var body ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return core.Expense{}, decodeError(err)
	}

	if err := rv.Struct(body); err != nil {
		return core.Expense{}, err
	}

	date, err := core.ParseDate(body.Date)
	if err != nil {
		return core.Expense{}, invalid("date must be a valid calendar date in YYYY-MM-DD format")
	}

	exp := core.Expense{
		Amount:   *body.Amount,
		Category: *body.Category,
		Date:     date,
	}
	if err := exp.Validate(); err != nil {
		return core.Expense{}, &ValidationError{Message: err.Error()}
	}
	return exp, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return invalid("request body is required")
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return invalid("request body must be a JSON object")
	case errors.As(err, &typeErr):
		return invalid("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return invalid("request body is not valid JSON")
	default:
		return invalid("invalid request body: %v", err)
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

// PathInt parses an integer path segment such as {year} or {month}.
func PathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// QueryFloat parses a required numeric query parameter.
func QueryFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, invalid("%s query parameter is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid("%s must be a finite number, got %q", name, raw)
	}
	return v, nil
}
