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

// Genre flash messages.
const (
	MsgGenreCreated       = "Жанр успішно створено!"
	MsgGenreUpdated       = "Жанр успішно оновлено!"
	MsgGenreDeleted       = "Жанр успішно видалено!"
	MsgGenreHasDependents = "Неможливо видалити жанр, який має пов'язані фільми!"
)

const genresPath = "/Genres"

type genresHandler struct {
	Deps
}

// NewGenresHandler creates the genre handler. Panics on a nil store.
func NewGenresHandler(deps Deps) EntityHandler {
	if deps.Store == nil {
		panic("NewGenresHandler: store must not be nil")
	}
	return &genresHandler{Deps: deps}
}

func (h *genresHandler) Index(c *gin.Context) {
	genres, err := h.Store.ListGenres(c.Request.Context())
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	renderPage(c, http.StatusOK, views.PageGenresIndex, views.Page{
		Title:   "Список жанрів",
		Section: views.SectionGenres,
		Body:    genres,
	})
}

func (h *genresHandler) Details(c *gin.Context) {
	h.show(c, views.PageGenresDetails, "Деталі жанру")
}

func (h *genresHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, views.PageGenresCreate, datatypes.Genre{}, nil)
}

func (h *genresHandler) Create(c *gin.Context) {
	if !postForm(c) {
		return
	}
	genre, _ := datatypes.GenreFromForm(c.Request.PostForm)

	err := h.Store.CreateGenre(c.Request.Context(), &genre)
	h.Metrics.RecordMutation(observability.EntityGenre, observability.OperationCreate, outcomeFor(err))
	if verr, ok := datatypes.AsValidationError(err); ok {
		h.renderForm(c, views.PageGenresCreate, genre, verr.Fields)
		return
	}
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}

	h.logger().Info("genre created", "genre_id", genre.ID)
	redirectWithFlash(c, genresPath, flashSuccess, MsgGenreCreated)
}

func (h *genresHandler) EditForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.Store.GetGenre(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	h.renderForm(c, views.PageGenresEdit, detail.Genre, nil)
}

func (h *genresHandler) Edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !postForm(c) {
		return
	}
	genre, _ := datatypes.GenreFromForm(c.Request.PostForm)
	if genre.ID != id {
		h.Metrics.RecordMutation(observability.EntityGenre, observability.OperationUpdate, observability.OutcomeNotFound)
		NotFound(c)
		return
	}

	err := h.Store.UpdateGenre(c.Request.Context(), &genre)
	h.Metrics.RecordMutation(observability.EntityGenre, observability.OperationUpdate, outcomeFor(err))
	if verr, ok := datatypes.AsValidationError(err); ok {
		h.renderForm(c, views.PageGenresEdit, genre, verr.Fields)
		return
	}
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}

	h.logger().Info("genre updated", "genre_id", genre.ID)
	redirectWithFlash(c, genresPath, flashSuccess, MsgGenreUpdated)
}

func (h *genresHandler) DeleteConfirm(c *gin.Context) {
	h.show(c, views.PageGenresDelete, "Видалення жанру")
}

// Delete removes the genre unless films reference it, in which case the
// list is shown with an error flash and the genre is kept.
func (h *genresHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.Store.DeleteGenre(c.Request.Context(), id)
	h.Metrics.RecordMutation(observability.EntityGenre, observability.OperationDelete, outcomeFor(err))
	switch {
	case errors.Is(err, store.ErrHasDependents):
		h.logger().Info("genre delete refused", "genre_id", id, "reason", err.Error())
		redirectWithFlash(c, genresPath, flashError, MsgGenreHasDependents)
	case errors.Is(err, store.ErrNotFound):
		redirectWithFlash(c, genresPath, flashSuccess, "")
	case err != nil:
		renderStoreError(c, h.logger(), err)
	default:
		h.logger().Info("genre deleted", "genre_id", id)
		redirectWithFlash(c, genresPath, flashSuccess, MsgGenreDeleted)
	}
}

// show renders a page whose body is the genre with its films.
func (h *genresHandler) show(c *gin.Context, page, title string) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.Store.GetGenre(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	renderPage(c, http.StatusOK, page, views.Page{
		Title:   title,
		Section: views.SectionGenres,
		Body:    detail,
	})
}

func (h *genresHandler) renderForm(c *gin.Context, page string, genre datatypes.Genre, fe datatypes.FieldErrors) {
	title := "Новий жанр"
	if page == views.PageGenresEdit {
		title = "Редагування жанру"
	}
	renderPage(c, http.StatusOK, page, views.Page{
		Title:   title,
		Section: views.SectionGenres,
		Body:    views.GenreFormBody{Genre: genre, Errors: fe},
	})
}
