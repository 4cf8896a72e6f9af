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

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
)

// ListDirectors returns every director ordered by id.
func (g *Gateway) ListDirectors(ctx context.Context) (directors []datatypes.Director, err error) {
	ctx, span := g.startSpan(ctx, "directors.list")
	defer func() { finishSpan(span, err) }()

	directors = []datatypes.Director{}
	if err := g.db.WithContext(ctx).Order("id").Find(&directors).Error; err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

// GetDirector returns the director and their films (genres preloaded), or ErrNotFound.
func (g *Gateway) GetDirector(ctx context.Context, id uint) (detail datatypes.DirectorWithFilms, err error) {
	ctx, span := g.startSpan(ctx, "directors.get", attribute.Int64("director.id", int64(id)))
	defer func() { finishSpan(span, err) }()

	db := g.db.WithContext(ctx)
	if err := db.First(&detail.Director, id).Error; err != nil {
		return datatypes.DirectorWithFilms{}, notFoundOr(err)
	}
	detail.Films = []datatypes.Film{}
	if err := db.Preload("Genre").Where("director_id = ?", id).Order(ratingOrder).Find(&detail.Films).Error; err != nil {
		return datatypes.DirectorWithFilms{}, fmt.Errorf("failed to list films of director %d: %w", id, err)
	}
	for i := range detail.Films {
		detail.Films[i].Director = &detail.Director
	}
	return detail, nil
}

// CreateDirector validates d and inserts it. On success d.ID is set.
func (g *Gateway) CreateDirector(ctx context.Context, d *datatypes.Director) error {
	return g.inTx(ctx, "directors.create", func(tx *gorm.DB) error {
		if err := datatypes.NewValidationError(datatypes.ValidateDirector(*d)); err != nil {
			return err
		}
		d.ID = 0
		return tx.Create(d).Error
	})
}

// UpdateDirector validates d and overwrites the row with id d.ID.
func (g *Gateway) UpdateDirector(ctx context.Context, d *datatypes.Director) error {
	return g.inTx(ctx, "directors.update", func(tx *gorm.DB) error {
		if err := datatypes.NewValidationError(datatypes.ValidateDirector(*d)); err != nil {
			return err
		}
		res := tx.Model(&datatypes.Director{}).Where("id = ?", d.ID).Updates(map[string]any{
			"name":    d.Name,
			"country": nullable(d.Country),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrConflict(tx, &datatypes.Director{}, d.ID)
		}
		return nil
	}, attribute.Int64("director.id", int64(d.ID)))
}

// DeleteDirector removes a director no film references. Errors match DeleteGenre.
func (g *Gateway) DeleteDirector(ctx context.Context, id uint) error {
	return g.inTx(ctx, "directors.delete", func(tx *gorm.DB) error {
		return g.deleteGuarded(tx, &datatypes.Director{}, "director", "director_id", id)
	}, attribute.Int64("director.id", int64(id)))
}
