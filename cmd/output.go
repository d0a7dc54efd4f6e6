package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/trainready/core/ranking"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

func checkFormat(f string) error {
	if f != formatJSON && f != formatCSV {
		return fmt.Errorf("unsupported format %q (json or csv)", f)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// selection resolves k and the what-if weights from flags, falling back to
// the configured defaults for flags that were not set.
func selection(cmd *cobra.Command, defaults ranking.Config, k int, bw, sw float64) (int, ranking.Weights, error) {
	if !cmd.Flags().Changed("k") {
		k = defaults.DefaultK
	}
	if k < 0 {
		return 0, ranking.Weights{}, fmt.Errorf("k must not be negative")
	}
	w := defaults.WhatIf
	if cmd.Flags().Changed("branding-weight") {
		w.BrandingWeight = bw
	}
	if cmd.Flags().Changed("stabling-weight") {
		w.StablingWeight = sw
	}
	return k, w, w.Validate()
}
