// Command maskpaint replays a recorded stroke script over an image and
// writes the resulting binary mask.
//
// Usage:
//
//	maskpaint -i photo.jpg -s strokes.json -o mask.png
//	maskpaint -i photo.jpg -s strokes.json --data-uri > mask.txt
//	maskpaint -i photo.jpg -s strokes.json -o mask.png --preview preview.png --preview-width 640
package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gogpu/maskpaint"
	"github.com/gogpu/maskpaint/internal/replay"
)

type options struct {
	Input        string  `short:"i" long:"input"         description:"Source image (PNG, JPEG, GIF, BMP, TIFF, WebP)" required:"true"`
	Script       string  `short:"s" long:"script"        description:"Stroke script (JSON); - reads stdin"              required:"true"`
	Output       string  `short:"o" long:"output"        description:"Mask PNG output file"`
	DataURI      bool    `short:"d" long:"data-uri"      description:"Print the mask as a data URI on stdout"`
	Preview      string  `short:"p" long:"preview"       description:"Write the image with the overlay drawn over it"`
	PreviewWidth int     `long:"preview-width"           description:"Scale the preview to this width (0 keeps the image size)"`
	Rasterizer   string  `short:"r" long:"rasterizer"    description:"Coverage rasterizer" choice:"gg" choice:"vector" default:"gg"`
	Radius       float64 `long:"radius"                  description:"Initial brush radius" default:"30"`
	Verbose      bool    `short:"v" long:"verbose"       description:"Log debug output to stderr"`
}

func parseCmd() (options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return opts, err
	}
	return opts, validate(opts)
}

var errNoOutput = errors.New("one of --output or --data-uri is required")

func validate(opts options) error {
	if opts.Output == "" && !opts.DataURI {
		return errNoOutput
	}
	return nil
}

func main() {
	opts, err := parseCmd()
	if err != nil {
		// go-flags already printed its own parse errors.
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) {
			fmt.Fprintln(os.Stderr, "maskpaint:", err)
		}
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	maskpaint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "maskpaint:", err)
		os.Exit(1)
	}
}

func run(opts options, stdin io.Reader, stdout io.Writer) error {
	mode, err := maskpaint.ParseRasterizerMode(opts.Rasterizer)
	if err != nil {
		return err
	}

	img, err := maskpaint.LoadImage(opts.Input)
	if err != nil {
		return err
	}

	script, err := readScript(opts.Script, stdin)
	if err != nil {
		return err
	}

	eng := maskpaint.NewEngine(
		maskpaint.WithRasterizer(mode),
		maskpaint.WithBrush(maskpaint.BrushConfig{Radius: opts.Radius}),
	)
	if err := eng.Load(img); err != nil {
		return err
	}
	if err := script.Play(eng); err != nil {
		return err
	}

	mask, err := eng.ComposeMask()
	if err != nil {
		return err
	}
	if opts.Output != "" {
		if err := writeFile(opts.Output, mask.WriteTo); err != nil {
			return err
		}
		maskpaint.Logger().Info("mask written", "path", opts.Output, "coverage", mask.Coverage())
	}
	if opts.DataURI {
		if _, err := fmt.Fprintln(stdout, mask.DataURI()); err != nil {
			return err
		}
	}

	if opts.Preview != "" {
		prev, err := eng.Preview()
		if err != nil {
			return err
		}
		var out image.Image = prev
		if opts.PreviewWidth > 0 {
			h := prev.Rect.Dy() * opts.PreviewWidth / max(prev.Rect.Dx(), 1)
			out = maskpaint.ScaleToDisplay(prev, opts.PreviewWidth, max(h, 1))
		}
		err = writeFile(opts.Preview, func(w io.Writer) (int64, error) {
			return 0, png.Encode(w, out)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func readScript(path string, stdin io.Reader) (*replay.Script, error) {
	if path == "-" {
		return replay.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return replay.Parse(f)
}

func writeFile(path string, write func(io.Writer) (int64, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
