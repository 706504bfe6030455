package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codeberg.org/metastamp/server/internal/watermark"
)

var errNoWatermark = errors.New("no watermark found")

func newExtractCmd() *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Read the watermark embedded in a frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := readFrame(flags.in)
			if err != nil {
				return err
			}

			var signer *watermark.Signer
			if flags.key != "" {
				if signer, err = watermark.NewSigner([]byte(flags.key)); err != nil {
					return err
				}
			}

			payloads := watermark.ExtractAll(frame.img)
			if len(payloads) == 0 {
				return errNoWatermark
			}

			if !flags.all {
				payloads = payloads[:1]
			}

			for _, p := range payloads {
				if err := printPayload(cmd.OutOrStdout(), p, signer); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.in, "in", "", "frame to read")
	cmd.Flags().StringVar(&flags.key, "key", "", "signing key; when set the signature is verified")
	cmd.Flags().BoolVar(&flags.all, "all", false, "print every structurally valid payload")
	cmd.MarkFlagRequired("in") //nolint:errcheck,gosec

	return cmd
}

func printPayload(w io.Writer, p watermark.Payload, signer *watermark.Signer) error {
	encoded, err := json.Marshal(p)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, string(encoded)) //nolint:errcheck

	if signer == nil {
		return nil
	}

	if signer.Verify(p) {
		color.New(color.FgGreen).Fprintln(w, "signature valid") //nolint:errcheck
	} else {
		color.New(color.FgRed).Fprintln(w, "signature INVALID") //nolint:errcheck
	}

	return nil
}
