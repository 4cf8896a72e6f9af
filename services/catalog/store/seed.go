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

	"gorm.io/gorm"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
)

func strPtr(s string) *string      { return &s }
func ratingPtr(r float64) *float64 { return &r }

// SeedGenres, SeedDirectors and SeedFilms are the fixture rows loaded into
// an empty catalog.
var (
	SeedGenres = []datatypes.Genre{
		{ID: 1, Name: "Драма"},
		{ID: 2, Name: "Комедія"},
		{ID: 3, Name: "Бойовик"},
		{ID: 4, Name: "Фантастика"},
		{ID: 5, Name: "Трилер"},
		{ID: 6, Name: "Жахи"},
	}

	SeedDirectors = []datatypes.Director{
		{ID: 1, Name: "Крістофер Нолан", Country: strPtr("Велика Британія")},
		{ID: 2, Name: "Квентін Тарантіно", Country: strPtr("США")},
		{ID: 3, Name: "Стівен Спілберг", Country: strPtr("США")},
		{ID: 4, Name: "Мартін Скорсезе", Country: strPtr("США")},
		{ID: 5, Name: "Дені Вільньов", Country: strPtr("Канада")},
	}

	SeedFilms = []datatypes.Film{
		{ID: 1, Title: "Інтерстеллар", Year: 2014, Description: strPtr("Науково-фантастичний фільм про подорож крізь чорну діру"), Rating: ratingPtr(8.7), GenreID: 4, DirectorID: 1},
		{ID: 2, Title: "Кримінальне чтиво", Year: 1994, Description: strPtr("Культовий кримінальний фільм"), Rating: ratingPtr(8.9), GenreID: 5, DirectorID: 2},
		{ID: 3, Title: "Список Шіндлера", Year: 1993, Description: strPtr("Історична драма про Голокост"), Rating: ratingPtr(9.0), GenreID: 1, DirectorID: 3},
		{ID: 4, Title: "Початок", Year: 2010, Description: strPtr("Фільм про сни всередині снів"), Rating: ratingPtr(8.8), GenreID: 4, DirectorID: 1},
		{ID: 5, Title: "Дюна", Year: 2021, Description: strPtr("Екранізація знаменитого роману"), Rating: ratingPtr(8.0), GenreID: 4, DirectorID: 5},
	}
)

// Seed loads the fixture rows if the catalog is completely empty.
//
// # Outputs
//
//   - bool: True when rows were inserted.
//   - error: Store failure. Nothing is inserted on error.
//
// # Limitations
//
//   - A catalog with any row in any table is left alone, even if the
//     fixtures are only partly present.
func (g *Gateway) Seed(ctx context.Context) (seeded bool, err error) {
	err = g.inTx(ctx, "seed", func(tx *gorm.DB) error {
		for _, model := range []any{&datatypes.Genre{}, &datatypes.Director{}, &datatypes.Film{}} {
			var n int64
			if err := tx.Model(model).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return nil
			}
		}

		genres := append([]datatypes.Genre(nil), SeedGenres...)
		directors := append([]datatypes.Director(nil), SeedDirectors...)
		films := append([]datatypes.Film(nil), SeedFilms...)
		if err := tx.Create(&genres).Error; err != nil {
			return fmt.Errorf("failed to seed genres: %w", err)
		}
		if err := tx.Create(&directors).Error; err != nil {
			return fmt.Errorf("failed to seed directors: %w", err)
		}
		if err := tx.Omit("Genre", "Director").Create(&films).Error; err != nil {
			return fmt.Errorf("failed to seed films: %w", err)
		}

		if g.driver == DriverPostgres {
			for _, table := range []string{"genres", "directors", "films"} {
				stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))", table, table)
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("failed to advance %s sequence: %w", table, err)
				}
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		g.logger.Info("catalog seeded",
			"genres", len(SeedGenres), "directors", len(SeedDirectors), "films", len(SeedFilms))
	}
	return seeded, nil
}

// Stats holds row counts per table.
type Stats struct {
	Films     int64 `json:"films"`
	Genres    int64 `json:"genres"`
	Directors int64 `json:"directors"`
}

// Stats counts the rows of every catalog table.
func (g *Gateway) Stats(ctx context.Context) (stats Stats, err error) {
	ctx, span := g.startSpan(ctx, "stats")
	defer func() { finishSpan(span, err) }()

	db := g.db.WithContext(ctx)
	counts := []struct {
		model any
		dst   *int64
	}{
		{&datatypes.Film{}, &stats.Films},
		{&datatypes.Genre{}, &stats.Genres},
		{&datatypes.Director{}, &stats.Directors},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return Stats{}, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return stats, nil
}
