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
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilmFromForm(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		form := url.Values{
			"Id":          {"7"},
			"Title":       {"  Дюна  "},
			"Year":        {"2021"},
			"Description": {"Екранізація"},
			"Rating":      {"8,04"},
			"GenreId":     {"4"},
			"DirectorId":  {"5"},
		}

		film, errs := FilmFromForm(form)

		assert.True(t, errs.Empty())
		assert.Equal(t, uint(7), film.ID)
		assert.Equal(t, "Дюна", film.Title)
		assert.Equal(t, 2021, film.Year)
		require.NotNil(t, film.Description)
		assert.Equal(t, "Екранізація", *film.Description)
		require.NotNil(t, film.Rating)
		assert.InDelta(t, 8.0, *film.Rating, 1e-9)
		assert.Equal(t, uint(4), film.GenreID)
		assert.Equal(t, uint(5), film.DirectorID)
	})

	t.Run("empty optionals are absent", func(t *testing.T) {
		film, errs := FilmFromForm(url.Values{"Title": {"x"}, "Description": {"   "}, "Rating": {""}})

		assert.True(t, errs.Empty())
		assert.Nil(t, film.Description)
		assert.Nil(t, film.Rating)
	})

	t.Run("non numeric year and rating", func(t *testing.T) {
		film, errs := FilmFromForm(url.Values{"Year": {"abc"}, "Rating": {"high"}})

		assert.Equal(t, MsgYearNotInteger, errs.First("Year"))
		assert.Equal(t, MsgRatingNotNumber, errs.First("Rating"))
		assert.Zero(t, film.Year)
		assert.Nil(t, film.Rating)

		errs.MergeMissing(ValidateFilm(film))
		assert.Equal(t, []string{MsgYearNotInteger}, errs["Year"])
		assert.True(t, errs.Has("Title"))
	})

	t.Run("NaN rating rejected", func(t *testing.T) {
		_, errs := FilmFromForm(url.Values{"Rating": {"NaN"}})
		assert.Equal(t, MsgRatingNotNumber, errs.First("Rating"))
	})
}

func TestDirectorFromForm(t *testing.T) {
	d, errs := DirectorFromForm(url.Values{"Name": {" Стівен Спілберг "}, "Country": {""}})

	assert.True(t, errs.Empty())
	assert.Equal(t, "Стівен Спілберг", d.Name)
	assert.Nil(t, d.Country)
	assert.Equal(t, "", d.CountryOrEmpty())
}

func TestParsePositiveID(t *testing.T) {
	tests := []struct {
		in   string
		want uint
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePositiveID(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilmFromForm_RatingRange(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantMsg string
	}{
		{name: "lower bound", raw: "1", want: 1},
		{name: "upper bound", raw: "10", want: 10},
		{name: "rounded inside range", raw: "9.96", want: 10},
		{name: "just above ten", raw: "10.04", want: 10.04, wantMsg: MsgRatingRange},
		{name: "just below one", raw: "0.95", want: 0.95, wantMsg: MsgRatingRange},
		{name: "above ten", raw: "10.05", want: 10.05, wantMsg: MsgRatingRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			film, bindErrs := FilmFromForm(url.Values{"Rating": {tt.raw}})
			require.True(t, bindErrs.Empty())
			require.NotNil(t, film.Rating)
			assert.InDelta(t, tt.want, *film.Rating, 1e-9)

			errs := ValidateFilm(film)
			assert.Equal(t, tt.wantMsg, errs.First("Rating"))
		})
	}
}

func TestRatingFormatting(t *testing.T) {
	assert.Equal(t, "8.7", FormatRating(8.7))
	assert.Equal(t, "10.0", FormatRating(10))

	r, ok := ParseRating("8.66")
	require.True(t, ok)
	assert.Equal(t, "8.7", FormatRating(r))

	f := Film{}
	assert.Equal(t, "", f.RatingText())
}
