package main

import (
	"github.com/spf13/cobra"

	"github.com/banshee-data/scanalign/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scanalign",
		Short: "Assemble overlapping beacon scans into one frame",
		Long: `scanalign reads scanner reports, each listing beacons relative to its own
unknown position and orientation, and places every scanner in the frame of a
reference scanner by finding rotations and translations under which reports
share enough beacons.`,
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.AddCommand(newSolveCmd(), newRotationsCmd())
	return root
}
