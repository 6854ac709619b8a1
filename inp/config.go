// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Analysis types
const (
	AnaStatic    = "static"
	AnaModal     = "modal"
	AnaSpectrum  = "response-spectrum"
	AnaNonlinear = "nonlinear"
)

// Duration parses YAML durations given as strings ("30s", "5m") or as
// integer nanoseconds
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (o *Duration) UnmarshalYAML(value *yaml.Node) (err error) {
	var s string
	if err = value.Decode(&s); err == nil {
		d, perr := time.ParseDuration(s)
		if perr != nil {
			return chk.Err("cannot parse duration %q:\n%v", s, perr)
		}
		*o = Duration(d)
		return
	}
	var n int64
	if err = value.Decode(&n); err != nil {
		return chk.Err("cannot parse duration %v", value.Value)
	}
	*o = Duration(n)
	return
}

// LinSolData selects and configures the linear system solver
type LinSolData struct {
	Name    string  `yaml:"name" validate:"omitempty,oneof=dense umfpack cg"` // "dense" (Cholesky), "umfpack" (sparse direct) or "cg" (iterative)
	Tol     float64 `yaml:"tol" validate:"gte=0"`                             // cg relative residual tolerance; 0 picks a default
	MaxIt   int     `yaml:"maxit" validate:"gte=0"`                           // cg iteration cap; 0 picks a default
	Verbose bool    `yaml:"verbose"`
}

// SpectrumData configures the design response spectrum (response-spectrum
// analyses only). When Periods/Accels are given they define a piecewise
// linear Sa(T); otherwise a code plateau spectrum is built from Ss/S1.
type SpectrumData struct {
	Periods []float64 `yaml:"periods"`             // spectrum periods [s], ascending
	Accels  []float64 `yaml:"accels"`              // spectral accelerations [m/s²] at Periods
	Ss      float64   `yaml:"ss" validate:"gte=0"` // short-period design acceleration [m/s²]
	S1      float64   `yaml:"s1" validate:"gte=0"` // one-second design acceleration [m/s²]
	Dir     int       `yaml:"dir" validate:"gte=0,lte=2"`
}

// Config holds the analysis configuration. It is passed by value into the
// solvers and never mutated by them.
type Config struct {

	// analysis selection
	Type string `yaml:"type" validate:"required,oneof=static modal response-spectrum time-history nonlinear"`

	// convergence control (nonlinear)
	Tol     float64 `yaml:"tol" validate:"gt=0"`        // relative residual tolerance
	NmaxIt  int     `yaml:"nmaxit" validate:"gte=1"`    // max Newton-Raphson iterations
	PDelta  bool    `yaml:"pdelta"`                     // include geometric stiffness
	GeomNL  bool    `yaml:"geomnl"`                     // update geometry between iterations
	Damping float64 `yaml:"damping" validate:"gte=0,lt=1"` // modal damping ratio

	// modal / seismic
	Nmodes    int          `yaml:"nmodes" validate:"gte=1"` // number of modes to extract
	MassType  string       `yaml:"mass" validate:"omitempty,oneof=lumped consistent"`
	CloseFreq float64      `yaml:"closefreq"` // adjacent-period ratio above which CQC replaces SRSS
	Spectrum  SpectrumData `yaml:"spectrum"`

	// eigen solver control
	EigMaxSweeps int `yaml:"eigmaxsweeps" validate:"gte=1"` // Jacobi sweep cap

	// linear solver
	LinSol LinSolData `yaml:"linsol"`

	// orchestration
	Nworkers int      `yaml:"nworkers" validate:"gte=1"` // bounded worker pool size
	Timeout  Duration `yaml:"timeout"`                   // advisory wall-clock timeout; 0 disables
	Verbose  bool     `yaml:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults for a linear
// static run
func DefaultConfig() Config {
	return Config{
		Type:         AnaStatic,
		Tol:          1e-6,
		NmaxIt:       25,
		Damping:      0.05,
		Nmodes:       3,
		MassType:     "lumped",
		CloseFreq:    0.90,
		EigMaxSweeps: 60,
		LinSol:       LinSolData{Name: "dense"},
		Nworkers:     4,
	}
}

// fillDefaults replaces zero values by the defaults
func (o *Config) fillDefaults() {
	def := DefaultConfig()
	if o.Type == "" {
		o.Type = def.Type
	}
	if o.Tol == 0 {
		o.Tol = def.Tol
	}
	if o.NmaxIt == 0 {
		o.NmaxIt = def.NmaxIt
	}
	if o.Damping == 0 {
		o.Damping = def.Damping
	}
	if o.Nmodes == 0 {
		o.Nmodes = def.Nmodes
	}
	if o.MassType == "" {
		o.MassType = def.MassType
	}
	if o.CloseFreq == 0 {
		o.CloseFreq = def.CloseFreq
	}
	if o.EigMaxSweeps == 0 {
		o.EigMaxSweeps = def.EigMaxSweeps
	}
	if o.LinSol.Name == "" {
		o.LinSol.Name = def.LinSol.Name
	}
	if o.Nworkers == 0 {
		o.Nworkers = def.Nworkers
	}
}

// Check validates the configuration ranges and enums. Range checks on raw
// user input belong to the excluded form-validation layer; this re-checks
// only what the solvers rely upon.
func (o *Config) Check() (err error) {
	o.fillDefaults()
	if err = validator.New().Struct(o); err != nil {
		return chk.Err("invalid analysis configuration:\n%v", err)
	}
	// recognized by the data model but no solver path is defined for it
	if o.Type == "time-history" {
		return chk.Err("analysis type %q is not supported by this solver core", o.Type)
	}
	return
}

// ReadConfig reads an analysis configuration from a YAML file
func ReadConfig(filepath string) (o Config, err error) {
	b, err := os.ReadFile(filepath)
	if err != nil {
		return o, chk.Err("cannot read config file %q:\n%v", filepath, err)
	}
	if err = yaml.Unmarshal(b, &o); err != nil {
		return o, chk.Err("cannot parse config file %q:\n%v", filepath, err)
	}
	err = o.Check()
	return
}
