// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
)

// FilmFilter narrows ListFilms. Nil fields do not filter.
type FilmFilter struct {
	// Search keeps films whose title contains the fragment.
	Search *string
	// GenreID keeps films of one genre.
	GenreID *uint
}

// ListFilms returns films matching filter, best rated first.
//
// # Description
//
// Both filters combine with AND. Substring matching uses the store's own
// comparison, so case sensitivity follows the store. Films without a
// rating come last; equal ratings are ordered by id. Genre and Director
// are preloaded on every film.
//
// # Inputs
//
//   - ctx: Request context.
//   - filter: Optional title fragment and genre id.
//
// # Outputs
//
//   - []datatypes.Film: Possibly empty, never nil on success.
//   - error: Store failure.
func (g *Gateway) ListFilms(ctx context.Context, filter FilmFilter) (films []datatypes.Film, err error) {
	ctx, span := g.startSpan(ctx, "films.list")
	defer func() { finishSpan(span, err) }()

	q := g.db.WithContext(ctx).Model(&datatypes.Film{}).Preload("Genre").Preload("Director")
	if filter.Search != nil && *filter.Search != "" {
		q = g.containsTitle(q, *filter.Search)
		span.SetAttributes(attribute.Bool("filter.search", true))
	}
	if filter.GenreID != nil {
		q = q.Where("genre_id = ?", *filter.GenreID)
		span.SetAttributes(attribute.Int64("filter.genre_id", int64(*filter.GenreID)))
	}

	films = []datatypes.Film{}
	if err := q.Order(ratingOrder).Find(&films).Error; err != nil {
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	return films, nil
}

// TopFilms returns at most limit films, best first. Unrated films come last,
// so they only appear when fewer than limit films are rated.
func (g *Gateway) TopFilms(ctx context.Context, limit int) (films []datatypes.Film, err error) {
	ctx, span := g.startSpan(ctx, "films.top", attribute.Int("limit", limit))
	defer func() { finishSpan(span, err) }()

	films = []datatypes.Film{}
	err = g.db.WithContext(ctx).
		Preload("Genre").Preload("Director").
		Order(ratingOrder).
		Limit(limit).
		Find(&films).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list top films: %w", err)
	}
	return films, nil
}

// GetFilm returns the film with its genre and director, or ErrNotFound.
func (g *Gateway) GetFilm(ctx context.Context, id uint) (film datatypes.Film, err error) {
	ctx, span := g.startSpan(ctx, "films.get", attribute.Int64("film.id", int64(id)))
	defer func() { finishSpan(span, err) }()

	if err := g.db.WithContext(ctx).Preload("Genre").Preload("Director").First(&film, id).Error; err != nil {
		return datatypes.Film{}, notFoundOr(err)
	}
	return film, nil
}

// CreateFilm validates f and inserts it. On success f.ID is set.
//
// # Description
//
// Validation, reference checks and the insert run in one transaction.
// Any ID carried by f is ignored; the store assigns one.
//
// # Outputs
//
//   - error: *datatypes.ValidationError when f breaks a rule or references
//     a missing genre or director. Store failure otherwise.
func (g *Gateway) CreateFilm(ctx context.Context, f *datatypes.Film) error {
	return g.inTx(ctx, "films.create", func(tx *gorm.DB) error {
		if err := checkFilm(tx, *f); err != nil {
			return err
		}
		f.ID = 0
		if err := tx.Omit(clause.Associations).Create(f).Error; err != nil {
			return referenceGone(err)
		}
		return nil
	})
}

// UpdateFilm validates f and overwrites the row with id f.ID.
//
// # Outputs
//
//   - error: *datatypes.ValidationError, ErrNotFound when the row is gone,
//     ErrConcurrentUpdate when the row exists but the update matched
//     nothing, or a store failure.
func (g *Gateway) UpdateFilm(ctx context.Context, f *datatypes.Film) error {
	return g.inTx(ctx, "films.update", func(tx *gorm.DB) error {
		if err := checkFilm(tx, *f); err != nil {
			return err
		}
		res := tx.Model(&datatypes.Film{}).Where("id = ?", f.ID).Updates(map[string]any{
			"title":       f.Title,
			"year":        f.Year,
			"description": nullable(f.Description),
			"rating":      nullable(f.Rating),
			"genre_id":    f.GenreID,
			"director_id": f.DirectorID,
		})
		if res.Error != nil {
			return referenceGone(res.Error)
		}
		if res.RowsAffected == 0 {
			return missingOrConflict(tx, &datatypes.Film{}, f.ID)
		}
		return nil
	}, attribute.Int64("film.id", int64(f.ID)))
}

// DeleteFilm removes the film, or returns ErrNotFound.
func (g *Gateway) DeleteFilm(ctx context.Context, id uint) error {
	return g.inTx(ctx, "films.delete", func(tx *gorm.DB) error {
		res := tx.Delete(&datatypes.Film{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}, attribute.Int64("film.id", int64(id)))
}

// checkFilm runs the rule set and, if it passes, the reference checks.
func checkFilm(tx *gorm.DB, f datatypes.Film) error {
	if fe := datatypes.ValidateFilm(f); !fe.Empty() {
		return &datatypes.ValidationError{Fields: fe}
	}

	fe := datatypes.FieldErrors{}
	exists, err := rowExists(tx, &datatypes.Genre{}, f.GenreID)
	if err != nil {
		return err
	}
	if !exists {
		fe.Add("GenreId", datatypes.MsgGenreMissing)
	}
	exists, err = rowExists(tx, &datatypes.Director{}, f.DirectorID)
	if err != nil {
		return err
	}
	if !exists {
		fe.Add("DirectorId", datatypes.MsgDirectorMissing)
	}
	return datatypes.NewValidationError(fe)
}

func rowExists(tx *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// missingOrConflict explains an update that matched no row.
func missingOrConflict(tx *gorm.DB, model any, id uint) error {
	exists, err := rowExists(tx, model, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConcurrentUpdate
}

// nullable turns a nil pointer into an untyped nil for map updates.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
