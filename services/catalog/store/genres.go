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
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
)

// ListGenres returns every genre ordered by id.
func (g *Gateway) ListGenres(ctx context.Context) (genres []datatypes.Genre, err error) {
	ctx, span := g.startSpan(ctx, "genres.list")
	defer func() { finishSpan(span, err) }()

	genres = []datatypes.Genre{}
	if err := g.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// GetGenre returns the genre and its films (directors preloaded), or ErrNotFound.
func (g *Gateway) GetGenre(ctx context.Context, id uint) (detail datatypes.GenreWithFilms, err error) {
	ctx, span := g.startSpan(ctx, "genres.get", attribute.Int64("genre.id", int64(id)))
	defer func() { finishSpan(span, err) }()

	db := g.db.WithContext(ctx)
	if err := db.First(&detail.Genre, id).Error; err != nil {
		return datatypes.GenreWithFilms{}, notFoundOr(err)
	}
	detail.Films = []datatypes.Film{}
	if err := db.Preload("Director").Where("genre_id = ?", id).Order(ratingOrder).Find(&detail.Films).Error; err != nil {
		return datatypes.GenreWithFilms{}, fmt.Errorf("failed to list films of genre %d: %w", id, err)
	}
	for i := range detail.Films {
		detail.Films[i].Genre = &detail.Genre
	}
	return detail, nil
}

// CreateGenre validates gen and inserts it. On success gen.ID is set.
func (g *Gateway) CreateGenre(ctx context.Context, gen *datatypes.Genre) error {
	return g.inTx(ctx, "genres.create", func(tx *gorm.DB) error {
		if err := datatypes.NewValidationError(datatypes.ValidateGenre(*gen)); err != nil {
			return err
		}
		gen.ID = 0
		return tx.Create(gen).Error
	})
}

// UpdateGenre validates gen and renames the row with id gen.ID.
func (g *Gateway) UpdateGenre(ctx context.Context, gen *datatypes.Genre) error {
	return g.inTx(ctx, "genres.update", func(tx *gorm.DB) error {
		if err := datatypes.NewValidationError(datatypes.ValidateGenre(*gen)); err != nil {
			return err
		}
		res := tx.Model(&datatypes.Genre{}).Where("id = ?", gen.ID).Update("name", gen.Name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrConflict(tx, &datatypes.Genre{}, gen.ID)
		}
		return nil
	}, attribute.Int64("genre.id", int64(gen.ID)))
}

// DeleteGenre removes a genre no film references.
//
// # Outputs
//
//   - error: ErrNotFound, a *DependentsError matching ErrHasDependents
//     when films reference the genre, or a store failure. On any error
//     the genre is unchanged.
func (g *Gateway) DeleteGenre(ctx context.Context, id uint) error {
	return g.inTx(ctx, "genres.delete", func(tx *gorm.DB) error {
		return g.deleteGuarded(tx, &datatypes.Genre{}, "genre", "genre_id", id)
	}, attribute.Int64("genre.id", int64(id)))
}

// deleteGuarded deletes the parent row id from model's table unless films
// reference it through fkColumn. The parent is locked first so a concurrent
// film insert cannot slip in between the count and the delete.
func (g *Gateway) deleteGuarded(tx *gorm.DB, model any, entity, fkColumn string, id uint) error {
	if err := g.forUpdate(tx).First(model, id).Error; err != nil {
		return notFoundOr(err)
	}

	var films int64
	if err := tx.Model(&datatypes.Film{}).Where(fkColumn+" = ?", id).Count(&films).Error; err != nil {
		return err
	}
	if films > 0 {
		return &DependentsError{Entity: entity, ID: id, Films: films}
	}

	if err := tx.Delete(model).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return &DependentsError{Entity: entity, ID: id}
		}
		return err
	}
	return nil
}
