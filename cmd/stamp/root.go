package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/metastamp/server/internal/watermark"
)

const version = "1.0.0"

// builds the command tree; a fresh tree per call keeps flag state out of tests
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stamp",
		Short:        "stamp: embed, extract and fingerprint Meta-Stamp watermarks offline",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newEmbedCmd(),
		newExtractCmd(),
		newFingerprintCmd(),
		newBatchCmd(),
	)

	return root
}

// resolves the signing key from the flag or WATERMARK_SIGNING_KEY
func signerFor(key string) (*watermark.Signer, error) {
	if key == "" {
		key = os.Getenv("WATERMARK_SIGNING_KEY")
	}

	if key == "" {
		return nil, fmt.Errorf("a signing key is required: pass --key or set WATERMARK_SIGNING_KEY")
	}

	return watermark.NewSigner([]byte(key))
}

func readFrame(path string) (*watermarkFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only

	img, format, err := watermark.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &watermarkFrame{img: img, format: format}, nil
}

func writeFrame(path string, frame *watermarkFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := watermark.EncodePNG(f, frame.img); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return err
	}

	return f.Close()
}
