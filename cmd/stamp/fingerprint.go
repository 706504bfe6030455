package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/internal/watermark"
)

func newFingerprintCmd() *cobra.Command {
	var flags fingerprintFlags

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print a frame's perceptual hash, optionally comparing it with another frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := readFrame(flags.in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fp := detection.DifferenceHash(frame.img)

			fmt.Fprintf(w, "fingerprint: %s\n", fp)                                 //nolint:errcheck
			fmt.Fprintf(w, "capacity:    %d bytes\n", watermark.Capacity(frame.img)) //nolint:errcheck

			if flags.compare == "" {
				return nil
			}

			other, err := readFrame(flags.compare)
			if err != nil {
				return err
			}

			distance := detection.HammingDistance(fp, detection.DifferenceHash(other.img))

			c := color.New(color.FgRed)
			if distance <= detection.DefaultSimilarityThreshold {
				c = color.New(color.FgGreen)
			}

			c.Fprintf(w, "distance:    %d (confidence %.2f)\n", distance, detection.Confidence(distance)) //nolint:errcheck

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.in, "in", "", "frame to fingerprint")
	cmd.Flags().StringVar(&flags.compare, "compare", "", "second frame to compare against")
	cmd.MarkFlagRequired("in") //nolint:errcheck,gosec

	return cmd
}
