// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/strucfem/strucfem/fem"
	"github.com/strucfem/strucfem/inp"
	"github.com/strucfem/strucfem/out"
	"github.com/strucfem/strucfem/seismic"
)

var (
	runModelFn  string
	runConfigFn string
	runOutputFn string
	runPlotFn   string
	runQuiet    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an analysis and write the results",
	Long: `Run the analysis described by a YAML configuration over a JSON model.

Examples:
  # linear static analysis
  strucfem run --model frame.json --config static.yaml --output results.json

  # with a Newton-Raphson convergence plot
  strucfem run -m frame.json -c nonlinear.yaml -o results.json --plot conv.png`,
	RunE: runAnalysis,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runModelFn, "model", "m", "", "model file (JSON) [required]")
	runCmd.Flags().StringVarP(&runConfigFn, "config", "c", "", "configuration file (YAML) [required]")
	runCmd.Flags().StringVarP(&runOutputFn, "output", "o", "results.json", "results file (JSON)")
	runCmd.Flags().StringVar(&runPlotFn, "plot", "", "convergence plot file (PNG), nonlinear runs only")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress progress output")
	runCmd.MarkFlagRequired("model")
	runCmd.MarkFlagRequired("config")
}

func runAnalysis(cmd *cobra.Command, args []string) (err error) {
	m, err := inp.ReadModel(runModelFn)
	if err != nil {
		return
	}
	cfg, err := inp.ReadConfig(runConfigFn)
	if err != nil {
		return
	}

	onProgress := func(p fem.Progress) {
		if runQuiet {
			return
		}
		if p.Total > 0 {
			fmt.Printf("  %s: %d/%d\n", p.Phase, p.Done, p.Total)
		} else {
			fmt.Printf("  %s\n", p.Phase)
		}
	}
	run, err := fem.Start(m, cfg, onProgress)
	if err != nil {
		return
	}

	// ctrl-c requests cooperative cancellation; a second one kills the process
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		fmt.Println("cancellation requested")
		run.Cancel()
		signal.Stop(sig)
	}()

	res, runErr := run.Wait()
	results := out.Collect(m, run.Id, res, runErr)
	if err = results.WriteJSON(runOutputFn); err != nil {
		return
	}
	if !runQuiet {
		fmt.Printf("status: %s\n", results.Status)
		if results.Compliance != nil {
			fmt.Printf("compliance: %s\n", results.Compliance.OverallStatus)
		}
		for _, w := range results.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		for _, e := range results.Errors {
			fmt.Printf("error: %s\n", e)
		}
		fmt.Printf("results written to %s\n", runOutputFn)
	}

	if runPlotFn != "" && res != nil {
		if cfg.Type == inp.AnaSpectrum {
			err = plotSpectrum(cfg, res, runPlotFn)
		} else {
			err = out.PlotConvergence(res.Combos, runPlotFn)
		}
		if err != nil {
			return
		}
	}
	if results.Status == out.StatusError {
		os.Exit(1)
	}
	return
}

// plotSpectrum renders the design spectrum out to 1.5 times the longest
// extracted period, so the plateau and the descending branch both show
func plotSpectrum(cfg inp.Config, res *fem.Results, filename string) (err error) {
	sd := cfg.Spectrum
	var spec *seismic.Spectrum
	if len(sd.Periods) > 0 {
		spec, err = seismic.NewSpectrum(sd.Periods, sd.Accels)
	} else {
		spec, err = seismic.NewPlateauSpectrum(sd.Ss, sd.S1)
	}
	if err != nil {
		return
	}
	tmax := 2.0
	if res.Modal != nil && len(res.Modal.Periods) > 0 {
		if t := 1.5 * res.Modal.Periods[0]; t > tmax {
			tmax = t
		}
	}
	return out.PlotSpectrum(spec, tmax, filename)
}
