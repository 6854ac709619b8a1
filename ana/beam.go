// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ana provides closed-form analytical solutions of simple structural
// members, used to verify the finite element solvers
package ana

import "math"

// SimplySupportedBeam computes the classical solutions of a simply supported
// prismatic beam
//
//          q (uniform, downward positive)
//   ↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓↓
//   o=======================o
//   ∆                       ○
//   |<--------- L --------->|
//
type SimplySupportedBeam struct {
	E float64 // Young's modulus
	I float64 // moment of inertia
	L float64 // span
}

// DeflUniform returns the midspan deflection under uniform load q:
// 5·q·L⁴/(384·E·I)
func (o *SimplySupportedBeam) DeflUniform(q float64) float64 {
	l2 := o.L * o.L
	return 5.0 * q * l2 * l2 / (384.0 * o.E * o.I)
}

// DeflPoint returns the midspan deflection under a central point load P:
// P·L³/(48·E·I)
func (o *SimplySupportedBeam) DeflPoint(P float64) float64 {
	return P * o.L * o.L * o.L / (48.0 * o.E * o.I)
}

// MomentUniform returns the midspan bending moment under uniform load q:
// q·L²/8
func (o *SimplySupportedBeam) MomentUniform(q float64) float64 {
	return q * o.L * o.L / 8.0
}

// CantileverBeam computes the classical solutions of a prismatic cantilever
type CantileverBeam struct {
	E float64
	I float64
	L float64
}

// DeflPoint returns the tip deflection under a tip point load P: P·L³/(3·E·I)
func (o *CantileverBeam) DeflPoint(P float64) float64 {
	return P * o.L * o.L * o.L / (3.0 * o.E * o.I)
}

// TipStiffness returns the lateral tip stiffness 3·E·I/L³
func (o *CantileverBeam) TipStiffness() float64 {
	return 3.0 * o.E * o.I / (o.L * o.L * o.L)
}

// AxialRod computes axial solutions of a clamped rod
type AxialRod struct {
	E float64
	A float64
	L float64
}

// Elongation returns the elongation under axial load P: P·L/(E·A)
func (o *AxialRod) Elongation(P float64) float64 {
	return P * o.L / (o.E * o.A)
}

// Sdof computes the natural frequency of a single-DOF oscillator
type Sdof struct {
	K float64 // stiffness
	M float64 // mass
}

// Omega returns the circular natural frequency √(k/m)
func (o *Sdof) Omega() float64 {
	return math.Sqrt(o.K / o.M)
}

// FreqHz returns the natural frequency in Hz
func (o *Sdof) FreqHz() float64 {
	return o.Omega() / (2.0 * math.Pi)
}
