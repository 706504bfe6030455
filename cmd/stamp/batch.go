package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var frameExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

func newBatchCmd() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Watermark every frame in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := signerFor(flags.key)
			if err != nil {
				return err
			}

			frames, err := listFrames(flags.dir)
			if err != nil {
				return err
			}

			if len(frames) == 0 {
				return fmt.Errorf("no frames found in %s", flags.dir)
			}

			if err := os.MkdirAll(flags.out, 0o750); err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(frames),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("stamping"),
				progressbar.OptionShowCount(),
			)

			var failed []string
			for _, in := range frames {
				name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".png"

				if _, err := embedFile(signer, in, filepath.Join(flags.out, name), flags.creator); err != nil {
					failed = append(failed, fmt.Sprintf("%s: %v", filepath.Base(in), err))
				}

				bar.Add(1) //nolint:errcheck,gosec
			}

			bar.Finish() //nolint:errcheck,gosec

			w := cmd.OutOrStdout()
			fmt.Fprintln(w) //nolint:errcheck
			color.New(color.FgGreen).Fprintf(w, "stamped %d of %d frames into %s\n", len(frames)-len(failed), len(frames), flags.out) //nolint:errcheck

			for _, f := range failed {
				color.New(color.FgRed).Fprintln(w, "  "+f) //nolint:errcheck
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d frames failed", len(failed))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "directory of frames")
	cmd.Flags().StringVar(&flags.out, "out", "", "output directory for stamped PNGs")
	cmd.Flags().StringVar(&flags.creator, "creator", "", "creator id to embed")
	cmd.Flags().StringVar(&flags.key, "key", "", "signing key (defaults to WATERMARK_SIGNING_KEY)")
	cmd.MarkFlagRequired("dir")     //nolint:errcheck,gosec
	cmd.MarkFlagRequired("out")     //nolint:errcheck,gosec
	cmd.MarkFlagRequired("creator") //nolint:errcheck,gosec

	return cmd
}

// returns decodable-looking files in dir, sorted by name
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}

	return out, nil
}
