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
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Rating bounds, matching the gte/lte tags on Film.Rating.
const (
	minRating = 1.0
	maxRating = 10.0
)

// GenreFromForm binds a submitted genre form.
//
// # Outputs
//
//   - Genre: The bound candidate. Text is trimmed.
//   - FieldErrors: Binding failures only. Rule violations come from ValidateGenre.
func GenreFromForm(form url.Values) (Genre, FieldErrors) {
	return Genre{
		ID:   parseID(form.Get("Id")),
		Name: strings.TrimSpace(form.Get("Name")),
	}, FieldErrors{}
}

// DirectorFromForm binds a submitted director form. An empty country is absent.
func DirectorFromForm(form url.Values) (Director, FieldErrors) {
	return Director{
		ID:      parseID(form.Get("Id")),
		Name:    strings.TrimSpace(form.Get("Name")),
		Country: optionalString(form.Get("Country")),
	}, FieldErrors{}
}

// FilmFromForm binds a submitted film form.
//
// # Description
//
// Empty optional fields become nil. A rating may use either a dot or a
// comma as the decimal separator and is rounded to one fractional digit.
// Non-numeric year or rating values are reported as binding failures and
// leave the field at its zero value.
//
// # Outputs
//
//   - Film: The bound candidate.
//   - FieldErrors: Binding failures keyed by form field name.
//
// # Examples
//
//	film, bindErrs := datatypes.FilmFromForm(c.Request.PostForm)
//	bindErrs.MergeMissing(datatypes.ValidateFilm(film))
func FilmFromForm(form url.Values) (Film, FieldErrors) {
	fe := FieldErrors{}
	film := Film{
		ID:          parseID(form.Get("Id")),
		Title:       strings.TrimSpace(form.Get("Title")),
		Description: optionalString(form.Get("Description")),
		GenreID:     parseID(form.Get("GenreId")),
		DirectorID:  parseID(form.Get("DirectorId")),
	}

	if raw := strings.TrimSpace(form.Get("Year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			fe.Add("Year", MsgYearNotInteger)
		} else {
			film.Year = year
		}
	}

	if raw := strings.TrimSpace(form.Get("Rating")); raw != "" {
		rating, ok := ParseRating(raw)
		if !ok {
			fe.Add("Rating", MsgRatingNotNumber)
		} else {
			film.Rating = &rating
		}
	}

	return film, fe
}

// ParseRating parses a decimal rating. Values inside the valid range are
// rounded to one fractional digit; values outside it are returned as given
// so the range rule still rejects them.
func ParseRating(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < minRating || v > maxRating {
		return v, true
	}
	return math.Round(v*10) / 10, true
}

// FormatRating renders a rating with exactly one fractional digit.
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// ParsePositiveID parses a path or query identifier. Zero, negative and
// non-numeric input report false.
func ParsePositiveID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseID(raw string) uint {
	id, _ := ParsePositiveID(raw)
	return id
}

func optionalString(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}
