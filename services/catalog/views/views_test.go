// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package views

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
)

func renderPage(t *testing.T, r *Renderer, name string, page Page) string {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, r.Instance(name, page).Render(w))
	return w.Body.String()
}

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, name := range []string{
		PageHome, PageAbout, PageError,
		PageFilmsIndex, PageFilmsDetails, PageFilmsCreate, PageFilmsEdit, PageFilmsDelete,
		PageGenresIndex, PageGenresDetails, PageGenresCreate, PageGenresEdit, PageGenresDelete,
		PageDirectorsIndex, PageDirectorsDetails, PageDirectorsCreate, PageDirectorsEdit, PageDirectorsDelete,
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("layout"))
	assert.Panics(t, func() { r.Instance("nope", nil) })
}

func TestFilmForm_RendersMessagesAndSelection(t *testing.T) {
	r := MustNew()
	errs := datatypes.FieldErrors{}
	errs.Add("Title", datatypes.MsgTitleRequired)

	body := renderPage(t, r, PageFilmsCreate, Page{
		Title:     "Новий фільм",
		Section:   SectionFilms,
		CSRFToken: "tok",
		Body: FilmFormBody{
			Film:      datatypes.Film{GenreID: 2},
			Genres:    []datatypes.Genre{{ID: 1, Name: "Драма"}, {ID: 2, Name: "Комедія"}},
			Directors: []datatypes.Director{{ID: 1, Name: "Крістофер Нолан"}},
			Errors:    errs,
		},
	})

	assert.Contains(t, body, "<title>Новий фільм - Фільми - Каталог фільмів</title>")
	assert.Contains(t, body, `data-valmsg-for="Title">Назва фільму є обов&#39;язковою</span>`)
	assert.Contains(t, body, `data-valmsg-for="Year"></span>`)
	assert.Contains(t, body, `<option value="2" selected>Комедія</option>`)
	assert.Contains(t, body, `name="__RequestVerificationToken" value="tok"`)
	assert.Contains(t, body, `id="submit-btn"`)
	assert.NotContains(t, body, `name="Id"`)
}

func TestFilmIndex_EmptyMessage(t *testing.T) {
	r := MustNew()

	body := renderPage(t, r, PageFilmsIndex, Page{
		Title:   "Список",
		Section: SectionFilms,
		Body:    FilmIndexBody{Films: []datatypes.Film{}, SearchString: "xyz"},
	})
	assert.Contains(t, body, `id="films-table"`)
	assert.Contains(t, body, `id="no-films-message"`)
	assert.Contains(t, body, `value="xyz"`)

	body = renderPage(t, r, PageFilmsIndex, Page{
		Section: SectionFilms,
		Success: "Фільм успішно створено!",
		Body:    FilmIndexBody{Films: []datatypes.Film{{ID: 1, Title: "Дюна", Genre: &datatypes.Genre{Name: "Фантастика"}}}},
	})
	assert.NotContains(t, body, `id="no-films-message"`)
	assert.Contains(t, body, `<td class="film-genre">Фантастика</td>`)
	assert.Contains(t, body, `id="success-alert"`)
}
