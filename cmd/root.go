// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd implements the strucfem command line interface
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strucfem",
	Short: "Structural frame finite element analysis",
	Long: `strucfem - structural frame finite element analysis

Analyses 3D frame structures (beams, columns, braces, trusses) under factored
load combinations:
  - linear static solves with reactions and member force recovery
  - modal extraction (natural frequencies and mode shapes)
  - response-spectrum seismic combination (SRSS/CQC)
  - geometrically nonlinear (P-Delta) Newton-Raphson solves
  - design-code compliance checks (stress, drift, deflection)

Models are JSON, configurations are YAML. Units: kN, m, kPa, Mg.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
