// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var sampleSummary = CatalogSummary{
	Driver:    "sqlite",
	Films:     5,
	Genres:    6,
	Directors: 5,
	TopFilms: []FilmLine{
		{Title: "Список Шіндлера", Year: 1993, Rating: "9.0", Genre: "Драма", Director: "Стівен Спілберг"},
		{Title: "Кримінальне чтиво", Year: 1994, Rating: "8.9", Genre: "Трилер", Director: "Квентін Тарантіно"},
	},
}

// =============================================================================
// Mode Tests
// =============================================================================

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"plain":   ModePlain,
		"MACHINE": ModePlain,
		"q":       ModePlain,
		"styled":  ModeStyled,
		"":        ModeStyled,
		"fancy":   ModeStyled,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseMode(in), in)
	}
}

func TestDetectMode(t *testing.T) {
	t.Setenv("FILMCATALOG_OUTPUT", "")
	assert.Equal(t, ModePlain, DetectMode(&bytes.Buffer{}))

	t.Setenv("FILMCATALOG_OUTPUT", "styled")
	assert.Equal(t, ModeStyled, DetectMode(&bytes.Buffer{}))
}

// =============================================================================
// Printer Tests
// =============================================================================

func TestPrinter_PlainMessages(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModePlain)

	p.Title("ignored")
	p.Success("migrated")
	p.Warning("already seeded")
	p.Error("connection refused")
	p.Info("driver sqlite")

	assert.Equal(t, "OK: migrated\nWARN: already seeded\nERROR: connection refused\ndriver sqlite\n", buf.String())
}

func TestPrinter_StyledMessages(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModeStyled)

	p.Title("Каталог")
	p.Success("migrated")
	p.Error("failed")

	out := buf.String()
	assert.Contains(t, out, "Каталог")
	assert.Contains(t, out, string(IconSuccess))
	assert.Contains(t, out, "migrated")
	assert.Contains(t, out, string(IconError))
}

func TestPrinter_SummaryPlain(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ModePlain).Summary(sampleSummary)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"SUMMARY: driver=sqlite films=5 genres=6 directors=5",
		"1\tСписок Шіндлера\t1993\t9.0\tДрама\tСтівен Спілберг",
		"2\tКримінальне чтиво\t1994\t8.9\tТрилер\tКвентін Тарантіно",
	}, lines)
}

func TestPrinter_SummaryStyled(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ModeStyled).Summary(sampleSummary)

	out := buf.String()
	assert.Contains(t, out, "Каталог фільмів")
	assert.Contains(t, out, "Найкращі фільми")
	assert.Contains(t, out, "Список Шіндлера")
	assert.Contains(t, out, "9.0")
	assert.Less(t, strings.Index(out, "Список Шіндлера"), strings.Index(out, "Кримінальне чтиво"))
}

func TestPrinter_SummaryStyledWithoutFilms(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ModeStyled).Summary(CatalogSummary{Driver: "postgres"})

	assert.NotContains(t, buf.String(), "Найкращі фільми")
	assert.Contains(t, buf.String(), "postgres")
}

func TestIcon_Render(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconBullet, IconStar} {
		assert.Contains(t, icon.Render(), string(icon))
	}
}
