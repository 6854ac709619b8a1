// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the structural model repository and the analysis
// configuration read from JSON/YAML input files
package inp

import (
	"encoding/json"
	"math"
	"os"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Support kinds. "free" leaves all six DOFs unrestrained; "fixed" restrains
// all six; "pinned" restrains the three translations; "roller" restrains the
// vertical translation only. An explicit Rmask overrides the kind.
const (
	SupportFree   = "free"
	SupportFixed  = "fixed"
	SupportPinned = "pinned"
	SupportRoller = "roller"
)

// Node holds nodal geometry and support conditions
type Node struct {
	Id      int        `json:"id"`              // unique identifier
	X       [3]float64 `json:"x"`               // coordinates [m]
	Support string     `json:"support"`         // support kind; empty means free
	Rmask   *[6]bool   `json:"rmask,omitempty"` // explicit restraint mask {ux,uy,uz,rx,ry,rz}; overrides Support
}

// Restraints returns the 6-DOF restraint mask of this node
func (o *Node) Restraints() (mask [6]bool) {
	if o.Rmask != nil {
		return *o.Rmask
	}
	switch o.Support {
	case SupportFixed:
		mask = [6]bool{true, true, true, true, true, true}
	case SupportPinned:
		mask = [6]bool{true, true, true, false, false, false}
	case SupportRoller:
		mask = [6]bool{false, false, true, false, false, false}
	}
	return
}

// Element kinds form a closed set; each kind maps to a formulation in the
// ele package. New kinds are added by extending this set and the ele factory.
const (
	KindBeam   = "beam"
	KindColumn = "column"
	KindBrace  = "brace"
	KindTruss  = "truss"
	KindSlab   = "slab"
	KindWall   = "wall"
)

// ElementKinds lists all valid element kinds
var ElementKinds = []string{KindBeam, KindColumn, KindBrace, KindTruss, KindSlab, KindWall}

// Element holds element connectivity and property references. Geometry and
// references are immutable once an analysis starts; the element stiffness is
// a derived artifact cached in the ele package and keyed by (material,
// section, geometry).
type Element struct {
	Id   int     `json:"id"`   // unique identifier
	Kind string  `json:"kind"` // element kind; see ElementKinds
	N0   int     `json:"n0"`   // start node id
	N1   int     `json:"n1"`   // end node id (must differ from N0)
	Mat  string  `json:"mat"`  // material name
	Sec  string  `json:"sec"`  // section name
	Roll float64 `json:"roll"` // roll angle about the element axis [rad]
}

// Load holds one load applied to a node or an element, belonging to a named
// load case. Point loads require a node or element target; distributed loads
// require an element target.
type Load struct {
	Case   string     `json:"case"`   // load case name; e.g. "D", "L", "W", "E"
	Kind   string     `json:"kind"`   // "dead", "live", "wind", "seismic", "point" or "distributed"
	NodeId int        `json:"nodeId"` // target node id; -1 when unused
	ElemId int        `json:"elemId"` // target element id; -1 when unused
	Dir    [3]float64 `json:"dir"`    // direction (forces); unit vector not required
	Mag    float64    `json:"mag"`    // magnitude [kN] (point) or [kN/m] (distributed)
	Qn     float64    `json:"qn"`     // distributed load normal to element axis [kN/m]
	Qt     float64    `json:"qt"`     // distributed load along element axis [kN/m]
}

// UnmarshalJSON fills -1 defaults for absent targets so that node id 0
// cannot be hit by omission
func (o *Load) UnmarshalJSON(b []byte) (err error) {
	type alias Load
	a := alias{NodeId: -1, ElemId: -1}
	if err = json.Unmarshal(b, &a); err != nil {
		return
	}
	*o = Load(a)
	return
}

// ComboTerm is one (load case, factor) pair of a combination
type ComboTerm struct {
	Case   string  `json:"case"`
	Factor float64 `json:"factor"`
}

// Combination holds a named, ordered list of factored load cases;
// e.g. "1.2D+1.6L" => {D:1.2, L:1.6}
type Combination struct {
	Name  string      `json:"name"`
	Terms []ComboTerm `json:"terms"`
}

// Model is the canonical structural model. It exclusively owns the topology;
// solvers receive read-only views and must not mutate it.
type Model struct {

	// input
	Desc      string         `json:"desc"` // description
	Nodes     []*Node        `json:"nodes"`
	Elements  []*Element     `json:"elements"`
	Materials []*Material    `json:"materials"`
	Sections  []*Section     `json:"sections"`
	Loads     []*Load        `json:"loads"`
	Combos    []*Combination `json:"combos"`

	// lock state; held while an analysis run is in flight
	mu    sync.Mutex
	runId string
}

// NewModel returns an empty model
func NewModel(desc string) *Model {
	return &Model{Desc: desc}
}

// Lock marks the model as owned by an analysis run. It fails with
// ModelLockedError if another run already holds the model.
func (o *Model) Lock(runId string) (err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runId != "" {
		return &ModelLockedError{RunId: o.runId}
	}
	o.runId = runId
	return
}

// Unlock releases the model after a run completes
func (o *Model) Unlock(runId string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runId == runId {
		o.runId = ""
	}
}

// locked reports whether an analysis run currently owns the model
func (o *Model) locked() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runId, o.runId != ""
}

// AddNode appends a node. It fails with ModelLockedError while a run is in flight.
func (o *Model) AddNode(n *Node) (err error) {
	if id, yes := o.locked(); yes {
		return &ModelLockedError{RunId: id}
	}
	o.Nodes = append(o.Nodes, n)
	return
}

// AddElement appends an element
func (o *Model) AddElement(e *Element) (err error) {
	if id, yes := o.locked(); yes {
		return &ModelLockedError{RunId: id}
	}
	o.Elements = append(o.Elements, e)
	return
}

// AddMaterial appends a material
func (o *Model) AddMaterial(m *Material) (err error) {
	if id, yes := o.locked(); yes {
		return &ModelLockedError{RunId: id}
	}
	o.Materials = append(o.Materials, m)
	return
}

// AddSection appends a section, deriving the rectangle properties from Wid
// and Hei when they were not given explicitly
func (o *Model) AddSection(s *Section) (err error) {
	if id, yes := o.locked(); yes {
		return &ModelLockedError{RunId: id}
	}
	if s.A <= 0 && s.Wid > 0 && s.Hei > 0 {
		s.DeriveRectangle()
	}
	o.Sections = append(o.Sections, s)
	return
}

// AddLoad appends a load
func (o *Model) AddLoad(l *Load) (err error) {
	if id, yes := o.locked(); yes {
		return &ModelLockedError{RunId: id}
	}
	o.Loads = append(o.Loads, l)
	return
}

// AddCombo appends a load combination
func (o *Model) AddCombo(c *Combination) (err error) {
	if id, yes := o.locked(); yes {
		return &ModelLockedError{RunId: id}
	}
	o.Combos = append(o.Combos, c)
	return
}

// GetNode returns the node with given id, or nil
func (o *Model) GetNode(id int) *Node {
	for _, n := range o.Nodes {
		if n.Id == id {
			return n
		}
	}
	return nil
}

// GetElement returns the element with given id, or nil
func (o *Model) GetElement(id int) *Element {
	for _, e := range o.Elements {
		if e.Id == id {
			return e
		}
	}
	return nil
}

// GetMaterial returns the material with given name, or nil
func (o *Model) GetMaterial(name string) *Material {
	for _, m := range o.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// GetSection returns the section with given name, or nil
func (o *Model) GetSection(name string) *Section {
	for _, s := range o.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// GetCombo returns the combination with given name, or nil
func (o *Model) GetCombo(name string) *Combination {
	for _, c := range o.Combos {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// CaseNames returns the distinct load case names in first-appearance order
func (o *Model) CaseNames() (names []string) {
	seen := make(map[string]bool)
	for _, l := range o.Loads {
		if !seen[l.Case] {
			seen[l.Case] = true
			names = append(names, l.Case)
		}
	}
	return
}

// Validate checks referential integrity. It is pure: no model state is
// modified and the first failure is returned as a typed error. Callers must
// not proceed to solve on failure.
func (o *Model) Validate() (err error) {

	// unique ids
	nids := make(map[int]bool)
	for _, n := range o.Nodes {
		if nids[n.Id] {
			return &DuplicateIdError{Kind: "node", Id: io.Sf("%d", n.Id)}
		}
		nids[n.Id] = true
	}
	eids := make(map[int]bool)
	for _, e := range o.Elements {
		if eids[e.Id] {
			return &DuplicateIdError{Kind: "element", Id: io.Sf("%d", e.Id)}
		}
		eids[e.Id] = true
	}
	mnames := make(map[string]bool)
	for _, m := range o.Materials {
		if mnames[m.Name] {
			return &DuplicateIdError{Kind: "material", Id: m.Name}
		}
		mnames[m.Name] = true
	}
	snames := make(map[string]bool)
	for _, s := range o.Sections {
		if snames[s.Name] {
			return &DuplicateIdError{Kind: "section", Id: s.Name}
		}
		snames[s.Name] = true
	}
	cnames := make(map[string]bool)
	for _, c := range o.Combos {
		if cnames[c.Name] {
			return &DuplicateIdError{Kind: "combination", Id: c.Name}
		}
		cnames[c.Name] = true
	}

	// element references
	for _, e := range o.Elements {
		if !nids[e.N0] {
			return &DanglingReferenceError{ElemId: e.Id, RefKind: "node", Ref: io.Sf("%d", e.N0)}
		}
		if !nids[e.N1] {
			return &DanglingReferenceError{ElemId: e.Id, RefKind: "node", Ref: io.Sf("%d", e.N1)}
		}
		if e.N0 == e.N1 {
			return &DegenerateElementError{ElemId: e.Id}
		}
		x0 := o.GetNode(e.N0).X
		x1 := o.GetNode(e.N1).X
		dd := 0.0
		for k := 0; k < 3; k++ {
			dd += (x1[k] - x0[k]) * (x1[k] - x0[k])
		}
		if dd < 1e-24 { // coincident end nodes make a zero-length member
			return &DegenerateElementError{ElemId: e.Id}
		}
		if !mnames[e.Mat] {
			return &DanglingReferenceError{ElemId: e.Id, RefKind: "material", Ref: e.Mat}
		}
		if !snames[e.Sec] {
			return &DanglingReferenceError{ElemId: e.Id, RefKind: "section", Ref: e.Sec}
		}
		kindok := false
		for _, k := range ElementKinds {
			if e.Kind == k {
				kindok = true
			}
		}
		if !kindok {
			return chk.Err("element %d: kind %q is unavailable", e.Id, e.Kind)
		}
	}

	// materials and sections
	for _, m := range o.Materials {
		if err = m.check(); err != nil {
			return
		}
	}
	for _, s := range o.Sections {
		if err = s.check(); err != nil {
			return
		}
	}

	// loads
	for _, l := range o.Loads {
		if l.NodeId < 0 && l.ElemId < 0 {
			return chk.Err("load in case %q requires a node or element target", l.Case)
		}
		if l.NodeId >= 0 && !nids[l.NodeId] {
			return chk.Err("load in case %q references missing node %d", l.Case, l.NodeId)
		}
		if l.ElemId >= 0 && !eids[l.ElemId] {
			return chk.Err("load in case %q references missing element %d", l.Case, l.ElemId)
		}
	}

	// combinations
	cases := make(map[string]bool)
	for _, name := range o.CaseNames() {
		cases[name] = true
	}
	for _, c := range o.Combos {
		if len(c.Terms) == 0 {
			return chk.Err("combination %q has no terms", c.Name)
		}
		for _, t := range c.Terms {
			if math.IsNaN(t.Factor) || math.IsInf(t.Factor, 0) {
				return chk.Err("combination %q: factor for case %q is not finite", c.Name, t.Case)
			}
			if !cases[t.Case] {
				return &UnknownLoadCaseError{Combo: c.Name, Case: t.Case}
			}
		}
	}
	return
}

// ReadModel reads a structural model from a JSON file
func ReadModel(filepath string) (o *Model, err error) {
	b, err := os.ReadFile(filepath)
	if err != nil {
		return nil, chk.Err("cannot read model file %q:\n%v", filepath, err)
	}
	o = new(Model)
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot parse model file %q:\n%v", filepath, err)
	}
	for _, m := range o.Materials {
		m.Derive()
	}
	for _, s := range o.Sections {
		if s.A <= 0 && s.Wid > 0 && s.Hei > 0 {
			s.DeriveRectangle()
		}
	}
	return
}
