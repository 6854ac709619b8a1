// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Material holds material parameters. Units: kN, m => E, Fc, Fy in kPa and
// Rho in Mg/m³ (tonne per cubic metre) so that Rho*A has units of mass per
// unit length consistent with kN forces.
type Material struct {

	// input
	Name string  `json:"name"` // material name
	Kind string  `json:"kind"` // "concrete", "steel" or "rebar"
	Fc   float64 `json:"fc"`   // compressive strength (concrete) [kPa]
	Fy   float64 `json:"fy"`   // yield strength (steel/rebar) [kPa]
	E    float64 `json:"e"`    // Young's modulus [kPa]
	Nu   float64 `json:"nu"`   // Poisson's ratio
	Rho  float64 `json:"rho"`  // density [Mg/m³]

	// derived
	G float64 `json:"-"` // shear modulus [kPa]
}

// Derive computes derived quantities
func (o *Material) Derive() {
	o.G = o.E / (2.0 * (1.0 + o.Nu))
}

// Strength returns the capacity stress used by code checks: Fc for concrete,
// Fy otherwise
func (o *Material) Strength() float64 {
	if o.Kind == "concrete" {
		return o.Fc
	}
	return o.Fy
}

// check validates material parameters
func (o *Material) check() (err error) {
	switch o.Kind {
	case "concrete":
		if o.Fc < 1e-10 {
			return chk.Err("material %q: concrete compressive strength must be positive. Fc=%g is invalid", o.Name, o.Fc)
		}
	case "steel", "rebar":
		if o.Fy < 1e-10 {
			return chk.Err("material %q: yield strength must be positive. Fy=%g is invalid", o.Name, o.Fy)
		}
	default:
		return chk.Err("material %q: kind %q is unavailable", o.Name, o.Kind)
	}
	if o.E < 1e-10 {
		return chk.Err("material %q: Young's modulus must be positive. E=%g is invalid", o.Name, o.E)
	}
	if o.Nu < 0 || o.Nu >= 0.5 {
		return chk.Err("material %q: Poisson's ratio must be within [0, 0.5). nu=%g is invalid", o.Name, o.Nu)
	}
	if o.Rho < 0 {
		return chk.Err("material %q: density cannot be negative. rho=%g is invalid", o.Name, o.Rho)
	}
	return
}

// Section holds cross-sectional properties of frame members
//
//   ^ 1       +-------+
//   |         |       |
//   |         |       |
//   +----> 2  |       | h = Hei        I22 ~ Imax (about 2-axis)
//             |       |                I11 ~ Imin (about 1-axis)
//             |       |                Jtt torsional constant
//             +-------+
//              b = Wid
//
type Section struct {
	Name string  `json:"name"` // section name
	A    float64 `json:"a"`    // cross-sectional area [m²]
	I22  float64 `json:"i22"`  // major moment of inertia [m⁴]
	I11  float64 `json:"i11"`  // minor moment of inertia [m⁴]
	Jtt  float64 `json:"jtt"`  // torsional constant [m⁴]
	Wid  float64 `json:"wid"`  // width (b), optional [m]
	Hei  float64 `json:"hei"`  // height (h), optional [m]
}

// DeriveRectangle fills A, I22, I11 and Jtt from Wid and Hei
func (o *Section) DeriveRectangle() {
	b, h := o.Wid, o.Hei
	b3 := b * b * b
	h3 := h * h * h
	o.A = b * h
	o.I22 = b * h3 / 12.0
	o.I11 = b3 * h / 12.0
	if b == h {
		o.Jtt = 9.0 * b3 * b / 64.0
	} else {
		if b > h {
			b, h, b3, h3 = h, b, h3, b3
		}
		o.Jtt = h * b3 * (1.0/3.0 - 0.21*(b/h)*(1.0-b*b3/(12.0*h*h3))) // approximate
	}
}

// HalfDepth returns the distance from the neutral axis to the extreme fibre
// about the major axis; falls back to a square estimate if Hei is absent
func (o *Section) HalfDepth() float64 {
	if o.Hei > 0 {
		return o.Hei / 2.0
	}
	return math.Sqrt(o.A) / 2.0
}

// HalfWidth returns the distance from the neutral axis to the extreme fibre
// about the minor axis
func (o *Section) HalfWidth() float64 {
	if o.Wid > 0 {
		return o.Wid / 2.0
	}
	return math.Sqrt(o.A) / 2.0
}

// check validates section properties without touching them: rectangle
// derivation happens when the section enters the model (AddSection or
// ReadModel), never here. If both Wid and Hei are given, A must agree with
// Wid*Hei within floating tolerance.
func (o *Section) check() (err error) {
	if o.Wid > 0 && o.Hei > 0 && o.A > 0 {
		bh := o.Wid * o.Hei
		if math.Abs(o.A-bh) > 1e-8*bh {
			return chk.Err("section %q: area %g does not match width*height = %g", o.Name, o.A, bh)
		}
	}
	if o.A < 1e-12 {
		return chk.Err("section %q: area must be positive. A=%g is invalid", o.Name, o.A)
	}
	if o.I22 < 0 || o.I11 < 0 || o.Jtt < 0 {
		return chk.Err("section %q: moments of inertia and torsional constant cannot be negative", o.Name)
	}
	return
}
