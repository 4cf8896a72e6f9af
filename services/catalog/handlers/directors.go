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

// Director flash messages.
const (
	MsgDirectorCreated       = "Режисера успішно створено!"
	MsgDirectorUpdated       = "Режисера успішно оновлено!"
	MsgDirectorDeleted       = "Режисера успішно видалено!"
	MsgDirectorHasDependents = "Неможливо видалити режисера, який має пов'язані фільми!"
)

const directorsPath = "/Directors"

type directorsHandler struct {
	Deps
}

// NewDirectorsHandler creates the director handler. Panics on a nil store.
func NewDirectorsHandler(deps Deps) EntityHandler {
	if deps.Store == nil {
		panic("NewDirectorsHandler: store must not be nil")
	}
	return &directorsHandler{Deps: deps}
}

func (h *directorsHandler) Index(c *gin.Context) {
	directors, err := h.Store.ListDirectors(c.Request.Context())
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	renderPage(c, http.StatusOK, views.PageDirectorsIndex, views.Page{
		Title:   "Список режисерів",
		Section: views.SectionDirectors,
		Body:    directors,
	})
}

func (h *directorsHandler) Details(c *gin.Context) {
	h.show(c, views.PageDirectorsDetails, "Деталі режисера")
}

func (h *directorsHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, views.PageDirectorsCreate, datatypes.Director{}, nil)
}

func (h *directorsHandler) Create(c *gin.Context) {
	if !postForm(c) {
		return
	}
	director, _ := datatypes.DirectorFromForm(c.Request.PostForm)

	err := h.Store.CreateDirector(c.Request.Context(), &director)
	h.Metrics.RecordMutation(observability.EntityDirector, observability.OperationCreate, outcomeFor(err))
	if verr, ok := datatypes.AsValidationError(err); ok {
		h.renderForm(c, views.PageDirectorsCreate, director, verr.Fields)
		return
	}
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}

	h.logger().Info("director created", "director_id", director.ID)
	redirectWithFlash(c, directorsPath, flashSuccess, MsgDirectorCreated)
}

func (h *directorsHandler) EditForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.Store.GetDirector(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	h.renderForm(c, views.PageDirectorsEdit, detail.Director, nil)
}

func (h *directorsHandler) Edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !postForm(c) {
		return
	}
	director, _ := datatypes.DirectorFromForm(c.Request.PostForm)
	if director.ID != id {
		h.Metrics.RecordMutation(observability.EntityDirector, observability.OperationUpdate, observability.OutcomeNotFound)
		NotFound(c)
		return
	}

	err := h.Store.UpdateDirector(c.Request.Context(), &director)
	h.Metrics.RecordMutation(observability.EntityDirector, observability.OperationUpdate, outcomeFor(err))
	if verr, ok := datatypes.AsValidationError(err); ok {
		h.renderForm(c, views.PageDirectorsEdit, director, verr.Fields)
		return
	}
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}

	h.logger().Info("director updated", "director_id", director.ID)
	redirectWithFlash(c, directorsPath, flashSuccess, MsgDirectorUpdated)
}

func (h *directorsHandler) DeleteConfirm(c *gin.Context) {
	h.show(c, views.PageDirectorsDelete, "Видалення режисера")
}

// Delete removes the director unless films reference them.
func (h *directorsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.Store.DeleteDirector(c.Request.Context(), id)
	h.Metrics.RecordMutation(observability.EntityDirector, observability.OperationDelete, outcomeFor(err))
	switch {
	case errors.Is(err, store.ErrHasDependents):
		h.logger().Info("director delete refused", "director_id", id, "reason", err.Error())
		redirectWithFlash(c, directorsPath, flashError, MsgDirectorHasDependents)
	case errors.Is(err, store.ErrNotFound):
		redirectWithFlash(c, directorsPath, flashSuccess, "")
	case err != nil:
		renderStoreError(c, h.logger(), err)
	default:
		h.logger().Info("director deleted", "director_id", id)
		redirectWithFlash(c, directorsPath, flashSuccess, MsgDirectorDeleted)
	}
}

func (h *directorsHandler) show(c *gin.Context, page, title string) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.Store.GetDirector(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, h.logger(), err)
		return
	}
	renderPage(c, http.StatusOK, page, views.Page{
		Title:   title,
		Section: views.SectionDirectors,
		Body:    detail,
	})
}

func (h *directorsHandler) renderForm(c *gin.Context, page string, director datatypes.Director, fe datatypes.FieldErrors) {
	title := "Новий режисер"
	if page == views.PageDirectorsEdit {
		title = "Редагування режисера"
	}
	renderPage(c, http.StatusOK, page, views.Page{
		Title:   title,
		Section: views.SectionDirectors,
		Body:    views.DirectorFormBody{Director: director, Errors: fe},
	})
}
