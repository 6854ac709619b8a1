// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "github.com/cpmech/gosl/io"

// DuplicateIdError indicates that two entities of the same kind share an identifier
type DuplicateIdError struct {
	Kind string // "node", "element", "material", "section", "combination"
	Id   string // offending identifier (numeric ids are formatted)
}

func (e *DuplicateIdError) Error() string {
	return io.Sf("duplicate %s id %q", e.Kind, e.Id)
}

// DanglingReferenceError indicates that an element references a missing node,
// material or section
type DanglingReferenceError struct {
	ElemId  int    // element holding the reference
	RefKind string // "node", "material" or "section"
	Ref     string // missing identifier
}

func (e *DanglingReferenceError) Error() string {
	return io.Sf("element %d references missing %s %q", e.ElemId, e.RefKind, e.Ref)
}

// DegenerateElementError indicates that an element's end nodes coincide
type DegenerateElementError struct {
	ElemId int
}

func (e *DegenerateElementError) Error() string {
	return io.Sf("element %d is degenerate: start and end nodes coincide", e.ElemId)
}

// UnknownLoadCaseError indicates that a combination references a load case
// absent from the model
type UnknownLoadCaseError struct {
	Combo string // combination name
	Case  string // missing load case
}

func (e *UnknownLoadCaseError) Error() string {
	return io.Sf("combination %q references unknown load case %q", e.Combo, e.Case)
}

// ModelLockedError indicates an attempt to mutate the model while an analysis
// run is in flight. The caller may retry after the run finishes.
type ModelLockedError struct {
	RunId string // id of the run holding the lock
}

func (e *ModelLockedError) Error() string {
	return io.Sf("model is locked by analysis run %q", e.RunId)
}
