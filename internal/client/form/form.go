// Package form binds parameter structs to validation and a guarded submit,
// backing the interactive create/edit flows.
package form

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrBusy is returned when a submit is attempted while another one is still
// in flight.
var ErrBusy = errors.New("form: submit already in progress")

// ErrInvalid is returned by Submit when validation fails. Field-level
// messages are available via Errors.
var ErrInvalid = errors.New("form: validation failed")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// sharedValidator is configured once: field names come from json tags so
// error messages match the wire names, and a "file" rule checks that the
// value points at an existing regular file.
func sharedValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("file_exists", func(fl validator.FieldLevel) bool {
			path := fl.Field().String()
			if path == "" {
				return false
			}
			info, err := os.Stat(path)
			return err == nil && info.Mode().IsRegular()
		})
		validate = v
	})
	return validate
}

// Form wraps one value of a parameter struct type. The zero value is not
// usable; construct with New.
type Form[T any] struct {
	mu    sync.Mutex
	value T
	busy  bool
	errs  map[string]string
}

func New[T any]() *Form[T] {
	return &Form[T]{errs: map[string]string{}}
}

// Set replaces the bound value and clears prior validation errors.
func (f *Form[T]) Set(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
	f.errs = map[string]string{}
}

func (f *Form[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Busy reports whether a submit is in flight.
func (f *Form[T]) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Validate runs the struct rules and records field messages. It returns
// true when the value is valid.
func (f *Form[T]) Validate() bool {
	f.mu.Lock()
	value := f.value
	f.mu.Unlock()

	errs := map[string]string{}
	if err := sharedValidator().Struct(value); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs[fe.Field()] = messageFor(fe)
			}
		} else {
			errs[""] = err.Error()
		}
	}

	f.mu.Lock()
	f.errs = errs
	f.mu.Unlock()
	return len(errs) == 0
}

// Errors returns field name to message from the last Validate call.
func (f *Form[T]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Submit validates and then runs fn with the bound value. Only one submit
// may be in flight at a time; a second attempt fails fast with ErrBusy
// instead of duplicating the mutation.
func (f *Form[T]) Submit(ctx context.Context, fn func(ctx context.Context, value T) error) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	if !f.Validate() {
		return ErrInvalid
	}
	return fn(ctx, f.Value())
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid url"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "file_exists":
		return "must be an existing file"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
