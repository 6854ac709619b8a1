// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strucfem/strucfem/fem"
	"github.com/strucfem/strucfem/inp"
)

var (
	modesModelFn string
	modesNmodes  int
	modesMass    string
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "Extract natural frequencies and periods",
	Long: `Run a modal analysis and print the natural frequencies, periods and
circular frequencies of the lowest modes.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m, err := inp.ReadModel(modesModelFn)
		if err != nil {
			return
		}
		cfg := inp.DefaultConfig()
		cfg.Type = inp.AnaModal
		cfg.Nmodes = modesNmodes
		if modesMass != "" {
			cfg.MassType = modesMass
		}
		run, err := fem.Start(m, cfg, nil)
		if err != nil {
			return
		}
		res, err := run.Wait()
		if err != nil {
			return
		}
		fmt.Printf("%4s  %12s  %12s  %12s\n", "mode", "omega", "freq [Hz]", "period [s]")
		for i := range res.Modal.Omegas {
			fmt.Printf("%4d  %12.6g  %12.6g  %12.6g\n",
				i+1, res.Modal.Omegas[i], res.Modal.Freqs[i], res.Modal.Periods[i])
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
	modesCmd.Flags().StringVarP(&modesModelFn, "model", "m", "", "model file (JSON) [required]")
	modesCmd.Flags().IntVarP(&modesNmodes, "nmodes", "n", 3, "number of modes to extract")
	modesCmd.Flags().StringVar(&modesMass, "mass", "", "mass matrix type: lumped or consistent")
	modesCmd.MarkFlagRequired("model")
}
