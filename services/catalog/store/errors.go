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
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row has the requested id.
	ErrNotFound = errors.New("catalog: entity not found")

	// ErrHasDependents is returned when deleting a genre or director that
	// films still reference. Match with errors.Is; the concrete error is
	// a *DependentsError.
	ErrHasDependents = errors.New("catalog: entity has dependent films")

	// ErrConcurrentUpdate is returned when an update matched no row although
	// the row exists.
	ErrConcurrentUpdate = errors.New("catalog: entity was modified concurrently")

	// ErrUnsupportedDriver is returned by Open for an unknown driver name.
	ErrUnsupportedDriver = errors.New("catalog: unsupported database driver")
)

// DependentsError describes a refused delete.
type DependentsError struct {
	Entity string
	ID     uint
	Films  int64
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("catalog: %s %d is referenced by %d film(s)", e.Entity, e.ID, e.Films)
}

// Is makes errors.Is(err, ErrHasDependents) true.
func (e *DependentsError) Is(target error) bool {
	return target == ErrHasDependents
}
