package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/calculator"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/storage"
)

// RequestValidator checks request messages against their validate tags and
// renders failures as English sentences.
type RequestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewRequestValidator builds a validator that reports JSON field names.
func NewRequestValidator() (*RequestValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	eng := en.New()
	uni := ut.New(eng, eng)
	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	return &RequestValidator{validate: v, translator: translator}, nil
}

// Check returns a CodeInvalidArgument error describing every failed field,
// or nil.
func (v *RequestValidator) Check(msg any) error {
	err := v.validate.Struct(msg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	translated := errs.Translate(v.translator)
	messages := make([]string, 0, len(translated))
	for _, m := range translated {
		messages = append(messages, m)
	}
	sort.Strings(messages)
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(messages, "; ")))
}

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var conflict *calculator.StateConflictError
	switch {
	case errors.As(err, &conflict):
		if conflict.Invariant == calculator.InvariantStale {
			return connect.NewError(connect.CodeAborted, err)
		}
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrVersionConflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, calculator.ErrValidation),
		errors.Is(err, money.ErrPrecision),
		errors.Is(err, money.ErrSyntax),
		errors.Is(err, money.ErrOutOfRange):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
