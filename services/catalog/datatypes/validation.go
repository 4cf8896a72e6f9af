// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// catalogValidate is the validator instance for catalog entities.
// Field names in reported errors are the form names, not the Go names.
var catalogValidate *validator.Validate

func init() {
	catalogValidate = validator.New(validator.WithRequiredStructEnabled())
	catalogValidate.RegisterTagNameFunc(formFieldName)
}

// formFieldName reports a struct field under its form tag.
func formFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// =============================================================================
// Messages
// =============================================================================

// Messages shown to users. Field messages for range and length rules are
// shared between the lower and upper bound.
const (
	MsgGenreNameRequired    = "Назва жанру є обов'язковою"
	MsgGenreNameLength      = "Назва має бути від 2 до 100 символів"
	MsgDirectorNameRequired = "Ім'я режисера є обов'язковим"
	MsgDirectorNameLength   = "Ім'я має бути від 2 до 150 символів"
	MsgCountryLength        = "Назва країни не може перевищувати 100 символів"
	MsgTitleRequired        = "Назва фільму є обов'язковою"
	MsgTitleLength          = "Назва має бути від 1 до 200 символів"
	MsgYearRequired         = "Рік випуску є обов'язковим"
	MsgYearRange            = "Рік має бути від 1895 до 2030"
	MsgYearNotInteger       = "Рік має бути цілим числом"
	MsgDescriptionLength    = "Опис не може перевищувати 2000 символів"
	MsgRatingRange          = "Рейтинг має бути від 1 до 10"
	MsgRatingNotNumber      = "Рейтинг має бути числом"
	MsgGenreRequired        = "Жанр є обов'язковим"
	MsgDirectorRequired     = "Режисер є обов'язковим"
	MsgGenreMissing         = "Обраний жанр не існує"
	MsgDirectorMissing      = "Обраний режисер не існує"
	MsgReferenceGone        = "Обраний жанр або режисер більше не існує"
)

// ruleMessages maps "<Struct>.<GoField>" to a message per failing tag.
var ruleMessages = map[string]map[string]string{
	"Genre.Name": {
		"required": MsgGenreNameRequired,
		"min":      MsgGenreNameLength,
		"max":      MsgGenreNameLength,
	},
	"Director.Name": {
		"required": MsgDirectorNameRequired,
		"min":      MsgDirectorNameLength,
		"max":      MsgDirectorNameLength,
	},
	"Director.Country": {
		"max": MsgCountryLength,
	},
	"Film.Title": {
		"required": MsgTitleRequired,
		"min":      MsgTitleLength,
		"max":      MsgTitleLength,
	},
	"Film.Year": {
		"required": MsgYearRequired,
		"gte":      MsgYearRange,
		"lte":      MsgYearRange,
	},
	"Film.Description": {
		"max": MsgDescriptionLength,
	},
	"Film.Rating": {
		"gte": MsgRatingRange,
		"lte": MsgRatingRange,
	},
	"Film.GenreID": {
		"required": MsgGenreRequired,
	},
	"Film.DirectorID": {
		"required": MsgDirectorRequired,
	},
}

// =============================================================================
// Field errors
// =============================================================================

// FieldErrors collects user-facing messages keyed by form field name.
// The empty key holds messages that belong to the form as a whole.
type FieldErrors map[string][]string

// Add appends msg to field. Duplicate messages are ignored.
func (fe FieldErrors) Add(field, msg string) {
	for _, existing := range fe[field] {
		if existing == msg {
			return
		}
	}
	fe[field] = append(fe[field], msg)
}

// Has reports whether field has at least one message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// First returns the first message for field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Empty reports whether there are no messages at all.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Fields returns the field names with messages, sorted.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// MergeMissing copies messages from other for fields fe has no messages
// for. A binding failure on a field therefore hides rule messages on it.
func (fe FieldErrors) MergeMissing(other FieldErrors) {
	for field, msgs := range other {
		if fe.Has(field) {
			continue
		}
		for _, m := range msgs {
			fe.Add(field, m)
		}
	}
}

// ValidationError carries field errors through error returns.
type ValidationError struct {
	Fields FieldErrors
}

// Error lists the failing fields.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields.Fields(), ", "))
}

// NewValidationError wraps fe, or returns nil when fe is empty.
func NewValidationError(fe FieldErrors) error {
	if fe.Empty() {
		return nil
	}
	return &ValidationError{Fields: fe}
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// =============================================================================
// Validation
// =============================================================================

// ValidateGenre checks g against the Genre rules. It never mutates g.
//
// # Outputs
//
//   - FieldErrors: Empty when g is valid, otherwise one or more messages
//     keyed by form field name.
func ValidateGenre(g Genre) FieldErrors {
	return validateEntity(g)
}

// ValidateDirector checks d against the Director rules. It never mutates d.
func ValidateDirector(d Director) FieldErrors {
	return validateEntity(d)
}

// ValidateFilm checks f against the Film rules. It never mutates f.
//
// # Description
//
// All violating fields are reported together. Within one field the first
// failing rule wins, and "required" is always listed first, so an absent
// value is reported as absent rather than out of range.
//
// # Limitations
//
//   - Does not check that GenreID and DirectorID exist. The store does that
//     inside the write transaction.
func ValidateFilm(f Film) FieldErrors {
	return validateEntity(f)
}

func validateEntity(v any) FieldErrors {
	fe := FieldErrors{}
	err := catalogValidate.Struct(v)
	if err == nil {
		return fe
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add("", err.Error())
		return fe
	}
	for _, e := range verrs {
		fe.Add(e.Field(), messageFor(e))
	}
	return fe
}

// messageFor translates one validator failure into a user-facing message.
func messageFor(e validator.FieldError) string {
	key := e.StructNamespace()
	if byTag, ok := ruleMessages[key]; ok {
		if msg, ok := byTag[e.Tag()]; ok {
			return msg
		}
	}
	return fmt.Sprintf("Поле %s має некоректне значення", e.Field())
}
