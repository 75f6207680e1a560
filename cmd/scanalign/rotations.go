package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/scanalign/internal/geom"
)

func newRotationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotations",
		Short: "Print the 24 rotation matrices in search order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for i, r := range geom.Rotations() {
				if _, err := fmt.Fprintf(w, "%2d %v det=%+.0f\n", i, r, r.Det()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
