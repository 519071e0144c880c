package main

import (
	"fmt"

	"github.com/UnendingLoop/Imagen/internal/gallery"
	"github.com/UnendingLoop/Imagen/internal/imageproc"
	"github.com/UnendingLoop/Imagen/internal/loader"
	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/UnendingLoop/Imagen/internal/storage"
	"github.com/UnendingLoop/Imagen/internal/storage/localstorage"
	"github.com/spf13/cobra"
)

type stampOptions struct {
	width  int
	height int
	text   string
	out    string
}

func newStampCmd() *cobra.Command {
	opts := stampOptions{}

	cmd := &cobra.Command{
		Use:   "stamp <file>",
		Short: "Decode a picture to fit the display, draw the caption and save it as JPEG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStamp(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 1080, "display width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 1920, "display height in pixels")
	cmd.Flags().StringVar(&opts.text, "text", imageproc.DefaultText, "caption drawn over the picture")
	cmd.Flags().StringVar(&opts.out, "out", storage.DefaultPicturesDir, "pictures directory")
	return cmd
}

func runStamp(cmd *cobra.Command, path string, opts stampOptions) error {
	budget := model.Dimensions{Width: opts.width, Height: opts.height}

	img, err := loader.Load(loader.FileSource(path), budget)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	defer img.Release()

	if err := imageproc.TextWatermark(img.Image(), opts.text); err != nil {
		return fmt.Errorf("stamp %s: %w", path, err)
	}

	strg, err := localstorage.NewLocalStorage(opts.out, 0)
	if err != nil {
		return fmt.Errorf("open pictures dir: %w", err)
	}

	saved, err := gallery.NewSaver(strg).Save(cmd.Context(), img.Image())
	if err != nil {
		return err
	}

	native, size := img.Native(), img.Size()
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%dx%d -> %dx%d, sample %d)\n",
		saved.Location, native.Width, native.Height, size.Width, size.Height, img.Sample())
	return nil
}
