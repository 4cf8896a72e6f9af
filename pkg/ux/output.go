// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides terminal output styling for the filmcatalog CLI.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E")
	ColorSlate       = lipgloss.Color("#2C4A54")

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
	IconStar    Icon = "★"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconStar:
		return Styles.Highlight.Render(string(i))
	default:
		return string(i)
	}
}

// =============================================================================
// Modes
// =============================================================================

// Mode selects between styled output for people and plain output for
// scripts.
type Mode string

const (
	ModeStyled Mode = "styled"
	ModePlain  Mode = "plain"
)

// ParseMode reads a mode name. Unknown names select ModeStyled.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "machine", "quiet", "q":
		return ModePlain
	default:
		return ModeStyled
	}
}

// DetectMode honours FILMCATALOG_OUTPUT and otherwise picks ModePlain when
// w is not a terminal.
func DetectMode(w io.Writer) Mode {
	if env := os.Getenv("FILMCATALOG_OUTPUT"); env != "" {
		return ParseMode(env)
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ModeStyled
	}
	return ModePlain
}

// =============================================================================
// Printer
// =============================================================================

// Printer writes CLI messages in one mode.
type Printer struct {
	w    io.Writer
	mode Mode
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, mode Mode) *Printer {
	return &Printer{w: w, mode: mode}
}

// Title prints a styled title. Plain mode prints nothing.
func (p *Printer) Title(text string) {
	if p.mode == ModePlain {
		return
	}
	fmt.Fprintln(p.w, Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func (p *Printer) Success(text string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.w, "OK: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message
func (p *Printer) Warning(text string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.w, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message
func (p *Printer) Error(text string) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.w, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Info prints an informational message
func (p *Printer) Info(text string) {
	if p.mode == ModePlain {
		fmt.Fprintln(p.w, text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", Styles.Muted.Render("│"), text)
}

// =============================================================================
// Catalog Summary
// =============================================================================

// FilmLine is one row of the best rated list.
type FilmLine struct {
	Title    string
	Year     int
	Rating   string
	Genre    string
	Director string
}

// CatalogSummary is what `filmcatalog stats` shows.
type CatalogSummary struct {
	Driver    string
	Films     int64
	Genres    int64
	Directors int64
	TopFilms  []FilmLine
}

// Summary prints catalog counts and the best rated films.
//
// Plain mode writes one key=value line for the counts and one
// tab-separated line per film, for scripts:
//
//	SUMMARY: driver=sqlite films=5 genres=6 directors=5
//	1	Список Шіндлера	1993	9.0	Драма	Стівен Спілберг
func (p *Printer) Summary(s CatalogSummary) {
	if p.mode == ModePlain {
		fmt.Fprintf(p.w, "SUMMARY: driver=%s films=%d genres=%d directors=%d\n",
			s.Driver, s.Films, s.Genres, s.Directors)
		for i, f := range s.TopFilms {
			fmt.Fprintf(p.w, "%d\t%s\t%d\t%s\t%s\t%s\n", i+1, f.Title, f.Year, f.Rating, f.Genre, f.Director)
		}
		return
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("Каталог фільмів"))
	b.WriteString(Styles.Muted.Render(" (" + s.Driver + ")"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s",
		Styles.Bold.Render(fmt.Sprintf("%d", s.Films)), Styles.Muted.Render("фільмів"),
		Styles.Bold.Render(fmt.Sprintf("%d", s.Genres)), Styles.Muted.Render("жанрів"),
		Styles.Bold.Render(fmt.Sprintf("%d", s.Directors)), Styles.Muted.Render("режисерів"),
	)

	if len(s.TopFilms) > 0 {
		b.WriteString("\n\n")
		b.WriteString(Styles.Subtitle.Render("Найкращі фільми"))
		for i, f := range s.TopFilms {
			fmt.Fprintf(&b, "\n%2d. %s %s %s %s",
				i+1,
				IconStar.Render(),
				Styles.Highlight.Render(f.Rating),
				f.Title,
				Styles.Muted.Render(fmt.Sprintf("(%d, %s, %s)", f.Year, f.Genre, f.Director)),
			)
		}
	}
	fmt.Fprintln(p.w, Styles.Box.Render(b.String()))
}
