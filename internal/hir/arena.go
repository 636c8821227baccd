package hir

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a generic typed arena for allocating elements.
// Индексы 1-based: нулевой ID зарезервирован под "нет значения".
type Arena[T any] struct {
	data []T
}

// Allocate appends a value to the arena and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return a.Len()
}

// Get returns a pointer to the element at the given 1-based index, or nil for index 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

// Len returns the number of elements in the arena.
func (a *Arena[T]) Len() uint32 {
	result, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena len overflow: %w", err))
	}
	return result
}

// Each calls fn for every (id, value) pair in allocation order.
func (a *Arena[T]) Each(fn func(uint32, *T)) {
	for i := range a.data {
		fn(uint32(i+1), &a.data[i])
	}
}

type (
	// ExprID identifies an expression within its owning Body.
	ExprID uint32
	// PatID identifies a pattern within its owning Body.
	PatID uint32
	// TermID identifies a compile-time term within its owning Body.
	TermID uint32
	// TypeExprID identifies a type expression within its owning Body.
	TypeExprID uint32
	// ClauseID identifies a function clause within its owning Body.
	ClauseID uint32
	// FormID is a stable handle into a file's form list.
	FormID uint32
)

const (
	// NoExprID indicates no expression.
	NoExprID ExprID = 0
	// NoPatID indicates no pattern.
	NoPatID PatID = 0
	// NoTermID indicates no term.
	NoTermID TermID = 0
	// NoTypeExprID indicates no type expression.
	NoTypeExprID TypeExprID = 0
	// NoClauseID indicates no clause.
	NoClauseID ClauseID = 0
	// NoFormID indicates no form.
	NoFormID FormID = 0
)

// IsValid reports whether the ExprID is valid (non-zero).
func (id ExprID) IsValid() bool { return id != NoExprID }

// IsValid reports whether the PatID is valid (non-zero).
func (id PatID) IsValid() bool { return id != NoPatID }

// IsValid reports whether the TermID is valid (non-zero).
func (id TermID) IsValid() bool { return id != NoTermID }

// IsValid reports whether the TypeExprID is valid (non-zero).
func (id TypeExprID) IsValid() bool { return id != NoTypeExprID }

// IsValid reports whether the ClauseID is valid (non-zero).
func (id ClauseID) IsValid() bool { return id != NoClauseID }

// IsValid reports whether the FormID is valid (non-zero).
func (id FormID) IsValid() bool { return id != NoFormID }
