// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the catalog entities and the rules that decide
// whether a candidate entity may be written.
//
// Entities are plain records. Column layout is described with gorm tags,
// field constraints with validator tags, and form field names with form
// tags. The form name is also the key under which validation messages are
// reported, so the HTML layer can place each message next to its input.
package datatypes

// =============================================================================
// Genre
// =============================================================================

// Genre is a film category such as drama or thriller.
//
// # Fields
//
//   - ID: Store-assigned identifier.
//   - Name: Required, 2 to 100 characters.
//
// # Assumptions
//
//   - A Genre referenced by at least one Film cannot be deleted.
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id" form:"Id"`
	Name string `gorm:"size:100;not null" json:"name" form:"Name" validate:"required,min=2,max=100"`
}

// TableName pins the table name independent of gorm naming strategy.
func (Genre) TableName() string { return "genres" }

// GenreWithFilms is a Genre together with every Film that references it.
type GenreWithFilms struct {
	Genre Genre
	Films []Film
}

// =============================================================================
// Director
// =============================================================================

// Director is a person credited with directing films.
//
// # Fields
//
//   - ID: Store-assigned identifier.
//   - Name: Required, 2 to 150 characters.
//   - Country: Optional, at most 100 characters. Nil when absent.
type Director struct {
	ID      uint    `gorm:"primaryKey" json:"id" form:"Id"`
	Name    string  `gorm:"size:150;not null" json:"name" form:"Name" validate:"required,min=2,max=150"`
	Country *string `gorm:"size:100" json:"country,omitempty" form:"Country" validate:"omitempty,max=100"`
}

// TableName pins the table name independent of gorm naming strategy.
func (Director) TableName() string { return "directors" }

// CountryOrEmpty returns the country, or "" when it is absent.
func (d Director) CountryOrEmpty() string {
	if d.Country == nil {
		return ""
	}
	return *d.Country
}

// DirectorWithFilms is a Director together with every Film that references it.
type DirectorWithFilms struct {
	Director Director
	Films    []Film
}

// =============================================================================
// Film
// =============================================================================

// Film is a catalog entry.
//
// # Description
//
// Genre and Director are populated by the store when a Film is read. They
// are never written through a Film; only GenreID and DirectorID are.
//
// # Fields
//
//   - ID: Store-assigned identifier.
//   - Title: Required, 1 to 200 characters.
//   - Year: Required, 1895 to 2030 inclusive.
//   - Description: Optional, at most 2000 characters. Nil when absent.
//   - Rating: Optional, 1 to 10 inclusive, one fractional digit. Nil when absent.
//   - GenreID: Required reference to an existing Genre.
//   - DirectorID: Required reference to an existing Director.
//
// # Assumptions
//
//   - References are checked inside the same transaction as the write,
//     and the schema restricts deletion of referenced rows.
type Film struct {
	ID          uint      `gorm:"primaryKey" json:"id" form:"Id"`
	Title       string    `gorm:"size:200;not null" json:"title" form:"Title" validate:"required,min=1,max=200"`
	Year        int       `gorm:"not null" json:"year" form:"Year" validate:"required,gte=1895,lte=2030"`
	Description *string   `gorm:"size:2000" json:"description,omitempty" form:"Description" validate:"omitempty,max=2000"`
	Rating      *float64  `gorm:"type:numeric(3,1)" json:"rating,omitempty" form:"Rating" validate:"omitempty,gte=1,lte=10"`
	GenreID     uint      `gorm:"not null;index" json:"genre_id" form:"GenreId" validate:"required"`
	Genre       *Genre    `gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"genre,omitempty" form:"-" validate:"-"`
	DirectorID  uint      `gorm:"not null;index" json:"director_id" form:"DirectorId" validate:"required"`
	Director    *Director `gorm:"foreignKey:DirectorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"director,omitempty" form:"-" validate:"-"`
}

// TableName pins the table name independent of gorm naming strategy.
func (Film) TableName() string { return "films" }

// GenreName returns the preloaded genre name, or "" if it was not loaded.
func (f Film) GenreName() string {
	if f.Genre == nil {
		return ""
	}
	return f.Genre.Name
}

// DirectorName returns the preloaded director name, or "" if it was not loaded.
func (f Film) DirectorName() string {
	if f.Director == nil {
		return ""
	}
	return f.Director.Name
}

// DescriptionOrEmpty returns the description, or "" when it is absent.
func (f Film) DescriptionOrEmpty() string {
	if f.Description == nil {
		return ""
	}
	return *f.Description
}

// RatingText formats the rating with one fractional digit, or "" when absent.
func (f Film) RatingText() string {
	if f.Rating == nil {
		return ""
	}
	return FormatRating(*f.Rating)
}
