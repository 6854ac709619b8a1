// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strucfem/strucfem/inp"
)

var (
	checkModelFn  string
	checkConfigFn string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a model and configuration without solving",
	Long: `Validate the referential integrity of a model (duplicate ids, dangling
references, degenerate elements, unknown load cases) and the analysis
configuration, reporting the first failure found.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m, err := inp.ReadModel(checkModelFn)
		if err != nil {
			return
		}
		if err = m.Validate(); err != nil {
			return
		}
		fmt.Printf("model ok: %d nodes, %d elements, %d loads, %d combinations\n",
			len(m.Nodes), len(m.Elements), len(m.Loads), len(m.Combos))
		if checkConfigFn != "" {
			cfg, err := inp.ReadConfig(checkConfigFn)
			if err != nil {
				return err
			}
			if err = cfg.Check(); err != nil {
				return err
			}
			fmt.Printf("configuration ok: type=%s\n", cfg.Type)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkModelFn, "model", "m", "", "model file (JSON) [required]")
	checkCmd.Flags().StringVarP(&checkConfigFn, "config", "c", "", "configuration file (YAML)")
	checkCmd.MarkFlagRequired("model")
}
