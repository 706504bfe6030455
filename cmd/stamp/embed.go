package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codeberg.org/metastamp/server/internal/watermark"
)

func newEmbedCmd() *cobra.Command {
	var flags embedFlags

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed a signed watermark into a frame and write it as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := signerFor(flags.key)
			if err != nil {
				return err
			}

			payload, err := embedFile(signer, flags.in, flags.out, flags.creator)
			if err != nil {
				return err
			}

			encoded, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "stamped %s -> %s\n", flags.in, flags.out) //nolint:errcheck
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))                                                //nolint:errcheck

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.in, "in", "", "frame to watermark (png, jpeg or gif)")
	cmd.Flags().StringVar(&flags.out, "out", "", "output PNG path")
	cmd.Flags().StringVar(&flags.creator, "creator", "", "creator id to embed")
	cmd.Flags().StringVar(&flags.key, "key", "", "signing key (defaults to WATERMARK_SIGNING_KEY)")
	cmd.MarkFlagRequired("in")      //nolint:errcheck,gosec
	cmd.MarkFlagRequired("out")     //nolint:errcheck,gosec
	cmd.MarkFlagRequired("creator") //nolint:errcheck,gosec

	return cmd
}

func embedFile(signer *watermark.Signer, in, out, creatorID string) (watermark.Payload, error) {
	frame, err := readFrame(in)
	if err != nil {
		return watermark.Payload{}, err
	}

	payload := signer.NewPayload(creatorID, time.Now())

	if err := watermark.Embed(frame.img, payload); err != nil {
		if errors.Is(err, watermark.ErrCapacityExceeded) {
			return watermark.Payload{}, fmt.Errorf("%s: frame holds %d bytes, too small for a watermark", in, watermark.Capacity(frame.img))
		}
		return watermark.Payload{}, err
	}

	if err := writeFrame(out, frame); err != nil {
		return watermark.Payload{}, err
	}

	return payload, nil
}
