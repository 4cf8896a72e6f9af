// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
	"github.com/AleutianAI/filmcatalog/services/catalog/observability"
	"github.com/AleutianAI/filmcatalog/services/catalog/store"
	"github.com/AleutianAI/filmcatalog/services/catalog/views"
)

// Film flash messages.
const (
	MsgFilmCreated = "Фільм успішно створено!"
	MsgFilmUpdated = "Фільм успішно оновлено!"
	MsgFilmDeleted = "Фільм успішно видалено!"
)

const filmsPath = "/Films"

// filmsHandler implements EntityHandler for films.
type filmsHandler struct {
	Deps
}

// NewFilmsHandler creates the film handler.
//
// # Examples
//
//	films := handlers.NewFilmsHandler(handlers.Deps{Store: gw, Metrics: metrics, Logger: logger})
//	router.GET("/Films", films.Index)
//	router.POST("/Films/Create", films.Create)
//
// # Limitations
//
//   - Panics on a nil store.
func NewFilmsHandler(deps Deps) EntityHandler {
	if deps.Store == nil {
		panic("NewFilmsHandler: store must not be nil")
	}
	return &filmsHandler{Deps: deps}
}

// Index lists films filtered by the optional searchString and genreId
// query parameters. An unparsable genreId is ignored.
func (h *filmsHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	body := views.FilmIndexBody{SearchString: c.Query("searchString")}
	var filter store.FilmFilter
	if body.SearchString != "" {
		filter.Search = &body.SearchString
	}
	if id, ok := datatypes.ParsePositiveID(c.Query("genreId")); ok {
		body.GenreID = id
		filter.GenreID = &id
	}

	films, err := h.Store.ListFilms(ctx, filter)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	genres, err := h.Store.ListGenres(ctx)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	body.Films = films
	body.Genres = genres

	renderPage(c, http.StatusOK, views.PageFilmsIndex, views.Page{
		Title:   "Список фільмів",
		Section: views.SectionFilms,
		Body:    body,
	})
}

// Details shows one film.
func (h *filmsHandler) Details(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	film, err := h.Store.GetFilm(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	renderPage(c, http.StatusOK, views.PageFilmsDetails, views.Page{
		Title:   film.Title,
		Section: views.SectionFilms,
		Body:    film,
	})
}

// CreateForm shows an empty film form.
func (h *filmsHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, views.PageFilmsCreate, datatypes.Film{}, nil)
}

// Create binds, validates and inserts a film.
func (h *filmsHandler) Create(c *gin.Context) {
	if !postForm(c) {
		return
	}
	film, bindErrs := datatypes.FilmFromForm(c.Request.PostForm)
	if !bindErrs.Empty() {
		bindErrs.MergeMissing(datatypes.ValidateFilm(film))
		h.Metrics.RecordMutation(observability.EntityFilm, observability.OperationCreate, observability.OutcomeValidation)
		h.renderForm(c, views.PageFilmsCreate, film, bindErrs)
		return
	}

	err := h.Store.CreateFilm(c.Request.Context(), &film)
	h.Metrics.RecordMutation(observability.EntityFilm, observability.OperationCreate, outcomeFor(err))
	if verr, ok := datatypes.AsValidationError(err); ok {
		h.renderForm(c, views.PageFilmsCreate, film, verr.Fields)
		return
	}
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}

	h.logger().Info("film created", "film_id", film.ID)
	redirectWithFlash(c, filmsPath, flashSuccess, MsgFilmCreated)
}

// EditForm shows the form filled with the stored film.
func (h *filmsHandler) EditForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	film, err := h.Store.GetFilm(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	h.renderForm(c, views.PageFilmsEdit, film, nil)
}

// Edit binds, validates and updates a film. A body Id that differs from
// the path id is a 404.
func (h *filmsHandler) Edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !postForm(c) {
		return
	}
	film, bindErrs := datatypes.FilmFromForm(c.Request.PostForm)
	if film.ID != id {
		h.Metrics.RecordMutation(observability.EntityFilm, observability.OperationUpdate, observability.OutcomeNotFound)
		NotFound(c)
		return
	}
	if !bindErrs.Empty() {
		bindErrs.MergeMissing(datatypes.ValidateFilm(film))
		h.Metrics.RecordMutation(observability.EntityFilm, observability.OperationUpdate, observability.OutcomeValidation)
		h.renderForm(c, views.PageFilmsEdit, film, bindErrs)
		return
	}

	err := h.Store.UpdateFilm(c.Request.Context(), &film)
	h.Metrics.RecordMutation(observability.EntityFilm, observability.OperationUpdate, outcomeFor(err))
	if verr, ok := datatypes.AsValidationError(err); ok {
		h.renderForm(c, views.PageFilmsEdit, film, verr.Fields)
		return
	}
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}

	h.logger().Info("film updated", "film_id", film.ID)
	redirectWithFlash(c, filmsPath, flashSuccess, MsgFilmUpdated)
}

// DeleteConfirm shows the film and asks for confirmation.
func (h *filmsHandler) DeleteConfirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	film, err := h.Store.GetFilm(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	renderPage(c, http.StatusOK, views.PageFilmsDelete, views.Page{
		Title:   "Видалення фільму",
		Section: views.SectionFilms,
		Body:    film,
	})
}

// Delete removes the film. A film that is already gone redirects to the
// list without a message.
func (h *filmsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.Store.DeleteFilm(c.Request.Context(), id)
	h.Metrics.RecordMutation(observability.EntityFilm, observability.OperationDelete, outcomeFor(err))
	switch {
	case errors.Is(err, store.ErrNotFound):
		redirectWithFlash(c, filmsPath, flashSuccess, "")
	case err != nil:
		renderStoreError(c, h.logger(), err)
	default:
		h.logger().Info("film deleted", "film_id", id)
		redirectWithFlash(c, filmsPath, flashSuccess, MsgFilmDeleted)
	}
}

// renderForm renders a create or edit form with the genre and director
// drop-downs. fe may be nil.
func (h *filmsHandler) renderForm(c *gin.Context, page string, film datatypes.Film, fe datatypes.FieldErrors) {
	ctx := c.Request.Context()
	genres, err := h.Store.ListGenres(ctx)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	directors, err := h.Store.ListDirectors(ctx)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}

	title := "Новий фільм"
	if page == views.PageFilmsEdit {
		title = "Редагування фільму"
	}
	renderPage(c, http.StatusOK, page, views.Page{
		Title:   title,
		Section: views.SectionFilms,
		Body: views.FilmFormBody{
			Film:      film,
			Genres:    genres,
			Directors: directors,
			Errors:    fe,
		},
	})
}
