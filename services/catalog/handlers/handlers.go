// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers translates HTTP requests into catalog store calls and
// picks the next page or redirect.
//
// # Description
//
// Each entity has a handler with the same eight actions: Index, Details,
// CreateForm, Create, EditForm, Edit, DeleteConfirm and Delete. Outcomes
// map onto responses the same way everywhere:
//
//   - validation failure: the form is re-rendered with 200 and messages
//   - not found: the error page with 404
//   - dependency conflict: redirect to the list with an error flash
//   - success: redirect to the list with a success flash
//   - anything else: the error page with 500, logged
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
	"github.com/AleutianAI/filmcatalog/services/catalog/middleware"
	"github.com/AleutianAI/filmcatalog/services/catalog/observability"
	"github.com/AleutianAI/filmcatalog/services/catalog/store"
	"github.com/AleutianAI/filmcatalog/services/catalog/views"
)

// =============================================================================
// Store Interfaces
// =============================================================================

// FilmStore is the film part of the catalog store.
type FilmStore interface {
	ListFilms(ctx context.Context, filter store.FilmFilter) ([]datatypes.Film, error)
	GetFilm(ctx context.Context, id uint) (datatypes.Film, error)
	CreateFilm(ctx context.Context, f *datatypes.Film) error
	UpdateFilm(ctx context.Context, f *datatypes.Film) error
	DeleteFilm(ctx context.Context, id uint) error
}

// GenreStore is the genre part of the catalog store.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]datatypes.Genre, error)
	GetGenre(ctx context.Context, id uint) (datatypes.GenreWithFilms, error)
	CreateGenre(ctx context.Context, g *datatypes.Genre) error
	UpdateGenre(ctx context.Context, g *datatypes.Genre) error
	DeleteGenre(ctx context.Context, id uint) error
}

// DirectorStore is the director part of the catalog store.
type DirectorStore interface {
	ListDirectors(ctx context.Context) ([]datatypes.Director, error)
	GetDirector(ctx context.Context, id uint) (datatypes.DirectorWithFilms, error)
	CreateDirector(ctx context.Context, d *datatypes.Director) error
	UpdateDirector(ctx context.Context, d *datatypes.Director) error
	DeleteDirector(ctx context.Context, id uint) error
}

// CatalogStore is everything the handlers need. *store.Gateway satisfies it.
type CatalogStore interface {
	FilmStore
	GenreStore
	DirectorStore
	TopFilms(ctx context.Context, limit int) ([]datatypes.Film, error)
	Stats(ctx context.Context) (store.Stats, error)
	Ping(ctx context.Context) error
}

var _ CatalogStore = (*store.Gateway)(nil)

// EntityHandler serves the eight actions of one catalog entity.
type EntityHandler interface {
	// Index lists the entities. GET /<Entity>, GET /<Entity>/Index
	Index(c *gin.Context)
	// Details shows one entity or 404. GET /<Entity>/Details/:id
	Details(c *gin.Context)
	// CreateForm shows an empty form. GET /<Entity>/Create
	CreateForm(c *gin.Context)
	// Create validates and inserts. POST /<Entity>/Create
	Create(c *gin.Context)
	// EditForm shows the filled form or 404. GET /<Entity>/Edit/:id
	EditForm(c *gin.Context)
	// Edit validates and updates. POST /<Entity>/Edit/:id
	Edit(c *gin.Context)
	// DeleteConfirm asks for confirmation or 404. GET /<Entity>/Delete/:id
	DeleteConfirm(c *gin.Context)
	// Delete removes the entity, subject to the dependency guard. POST /<Entity>/Delete/:id
	Delete(c *gin.Context)
}

// Deps bundles what every handler needs.
//
// # Fields
//
//   - Store: Catalog store. Must not be nil.
//   - Metrics: May be nil.
//   - Logger: May be nil, in which case slog.Default() is used.
type Deps struct {
	Store   CatalogStore
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// =============================================================================
// Rendering
// =============================================================================

// renderPage fills the per-request fields of page and renders name.
func renderPage(c *gin.Context, status int, name string, page views.Page) {
	flash := consumeFlash(c)
	page.Success = flash.Success
	page.Error = flash.Error
	page.CSRFToken = middleware.CSRFToken(c)
	c.HTML(status, name, page)
}

// renderError renders the error page. The message for 404 always
// carries the status so users and tests can recognise it.
func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, views.PageError, views.Page{
		Title: http.StatusText(status),
		Body: views.ErrorBody{
			Status:    status,
			Message:   message,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// MsgNotFound is the body of every 404 page.
const MsgNotFound = "404 - Сторінку не знайдено"

// MsgServerError is the body of every 500 page.
const MsgServerError = "Сталася внутрішня помилка. Спробуйте пізніше."

// MsgBadRequest is shown when a form body cannot be parsed.
const MsgBadRequest = "Некоректний запит"

// NotFound renders the 404 page. Used for unknown routes too.
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, MsgNotFound)
}

// renderStoreError maps a store error that is not a validation failure
// onto a response. Vanished rows are 404; everything else is logged and
// becomes 500.
func renderStoreError(c *gin.Context, logger *slog.Logger, err error) {
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c)
		return
	}
	_ = c.Error(err)
	logger.Error("catalog operation failed",
		"error", err,
		"route", c.FullPath(),
		"request_id", middleware.GetRequestID(c))
	renderError(c, http.StatusInternalServerError, MsgServerError)
}

// pathID parses the :id route parameter. It renders 404 and reports false
// when the id is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, ok := datatypes.ParsePositiveID(c.Param("id"))
	if !ok {
		NotFound(c)
	}
	return id, ok
}

// postForm parses the request body. It renders 400 and reports false on failure.
func postForm(c *gin.Context) bool {
	if err := c.Request.ParseForm(); err != nil {
		renderError(c, http.StatusBadRequest, MsgBadRequest)
		return false
	}
	return true
}

// redirectWithFlash sets a flash and redirects with 302.
func redirectWithFlash(c *gin.Context, location string, kind flashKind, msg string) {
	if msg != "" {
		setFlash(c, kind, msg)
	}
	c.Redirect(http.StatusFound, location)
}

// outcomeFor classifies a write result for metrics.
func outcomeFor(err error) observability.Outcome {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, store.ErrNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, store.ErrHasDependents), errors.Is(err, store.ErrConcurrentUpdate):
		return observability.OutcomeConflict
	}
	if _, ok := datatypes.AsValidationError(err); ok {
		return observability.OutcomeValidation
	}
	return observability.OutcomeError
}
