// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package views holds the embedded HTML templates of the catalog and a gin
// renderer for them.
//
// # Description
//
// Every page is its own template set: the shared layout and partials plus
// one page file defining "content". Page files are named
// "<section>_<action>.html" and addressed as "<section>/<action>", for
// example "films/index". Element ids in the templates are relied on by
// browser automation and must stay stable.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageHome             = "home"
	PageAbout            = "about"
	PageError            = "error"
	PageFilmsIndex       = "films/index"
	PageFilmsDetails     = "films/details"
	PageFilmsCreate      = "films/create"
	PageFilmsEdit        = "films/edit"
	PageFilmsDelete      = "films/delete"
	PageGenresIndex      = "genres/index"
	PageGenresDetails    = "genres/details"
	PageGenresCreate     = "genres/create"
	PageGenresEdit       = "genres/edit"
	PageGenresDelete     = "genres/delete"
	PageDirectorsIndex   = "directors/index"
	PageDirectorsDetails = "directors/details"
	PageDirectorsCreate  = "directors/create"
	PageDirectorsEdit    = "directors/edit"
	PageDirectorsDelete  = "directors/delete"
)

// Section titles. Each page title carries its section.
const (
	SectionFilms     = "Фільми"
	SectionGenres    = "Жанри"
	SectionDirectors = "Режисери"
)

// =============================================================================
// View models
// =============================================================================

// Page is the data every template receives.
type Page struct {
	Title     string
	Section   string
	Success   string
	Error     string
	CSRFToken string
	Body      any
}

// HomeBody feeds the home page.
type HomeBody struct {
	Films     int64
	Genres    int64
	Directors int64
	TopFilms  []datatypes.Film
}

// FilmIndexBody feeds the film list with its filter form.
type FilmIndexBody struct {
	Films        []datatypes.Film
	Genres       []datatypes.Genre
	SearchString string
	GenreID      uint
}

// FilmFormBody feeds the film create and edit forms.
type FilmFormBody struct {
	Film      datatypes.Film
	Genres    []datatypes.Genre
	Directors []datatypes.Director
	Errors    datatypes.FieldErrors
}

// GenreFormBody feeds the genre create and edit forms.
type GenreFormBody struct {
	Genre  datatypes.Genre
	Errors datatypes.FieldErrors
}

// DirectorFormBody feeds the director create and edit forms.
type DirectorFormBody struct {
	Director datatypes.Director
	Errors   datatypes.FieldErrors
}

// ErrorBody feeds the error page.
type ErrorBody struct {
	Status    int
	Message   string
	RequestID string
}

// fieldMessage is the argument of the "valmsg" partial.
type fieldMessage struct {
	Field   string
	Message string
}

var funcs = template.FuncMap{
	"field": func(fe datatypes.FieldErrors, name string) fieldMessage {
		return fieldMessage{Field: name, Message: fe.First(name)}
	},
}

// =============================================================================
// Renderer
// =============================================================================

// Renderer implements gin's render.HTMLRender over the embedded pages.
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// New parses every embedded page.
//
// # Outputs
//
//   - *Renderer: Assign to gin.Engine.HTMLRender.
//   - error: A template failed to parse.
func New() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, file := range entries {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" || name == "partials" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		page, err := clone.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		r.pages[strings.Replace(name, "_", "/", 1)] = page
	}
	return r, nil
}

// MustNew is New that panics on error. The templates are embedded, so an
// error is a build defect.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Instance returns the render for page name. Unknown names panic, as the
// set of pages is fixed at build time.
func (r *Renderer) Instance(name string, data any) render.Render {
	page, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return render.HTML{Template: page, Name: "layout", Data: data}
}
