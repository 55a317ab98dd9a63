// Command cropframes crops every frame of an image sequence to its content
// and writes the crop coordinates to a CSV report.
//
// Usage:
//
//	cropframes -i movie_%06d.png -o cropped_%06d.png -u
//	cropframes -i clip.mp4 -o cropped.mp4 -c boxes.csv
//	cropframes -i scans/ -o cropped_%04d.png -policy fixed -bg ffffff
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"strings"

	"github.com/nvr-ai/go-framecrop/pipeline"
	"github.com/nvr-ai/go-framecrop/reconcile"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		input, output, reportPath, preview, axes string
		policyName, background                   string
		appendRows, union, fixed                 bool
		begin, end, stride, verbosity, workers   int
		fps                                      float64
		quality                                  int
	)
	defaults := pipeline.DefaultConfig()
	flag.StringVar(&input, "i", "", "Input image sequence (file, directory, video or pattern such as movie_%06d.png)")
	flag.StringVar(&output, "o", "", "Output image sequence (default: input without its frame number)")
	flag.StringVar(&reportPath, "c", "", "CSV spreadsheet of crop coordinates (\"false\" to disable)")
	flag.StringVar(&preview, "p", "", "Contact sheet image of the cropped frames")
	flag.BoolVar(&appendRows, "a", false, "Append rows to an existing spreadsheet")
	flag.IntVar(&begin, "b", 0, "Index of the first frame")
	flag.IntVar(&end, "e", defaults.End, "Index of the last frame (-1 reads until a file is missing)")
	flag.IntVar(&stride, "s", defaults.Stride, "Frame index increment")
	flag.BoolVar(&union, "u", false, "Crop all frames to the union of their regions")
	flag.BoolVar(&fixed, "f", false, "Crop all frames to a fixed size around their regions")
	flag.StringVar(&policyName, "policy", defaults.Policy.String(), "Reconciliation policy: independent, union or fixed")
	flag.StringVar(&background, "bg", "", "Background color as rrggbb (default: guessed from the frame corners)")
	flag.IntVar(&verbosity, "v", 0, "Verbosity level (0-3)")
	flag.StringVar(&axes, "axes", defaults.Axes, "Axes to crop along")
	flag.IntVar(&workers, "workers", defaults.Workers, "Number of frames scanned concurrently")
	flag.Float64Var(&fps, "fps", defaults.FPS, "Frame rate of video and GIF output")
	flag.IntVar(&quality, "quality", defaults.Quality, "JPEG and WebP output quality")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(logLevel(verbosity))

	if input == "" {
		fmt.Fprintln(os.Stderr, "no input image sequence specified")
		flag.Usage()
		os.Exit(1)
	}

	policy, err := policyFromFlags(policyName, union, fixed)
	if err != nil {
		log.WithError(err).Fatal("Invalid arguments")
	}
	bg, err := parseColor(background)
	if err != nil {
		log.WithError(err).Fatal("Invalid arguments")
	}

	paths := pipeline.Derive(input, output, reportPath, appendRows)
	explicitBegin := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "b" {
			explicitBegin = true
		}
	})
	if !explicitBegin {
		begin = paths.Begin
	}

	cfg := defaults
	cfg.Input = paths.Input
	cfg.Output = paths.Output
	cfg.Report = paths.Report
	cfg.Preview = preview
	cfg.Begin = begin
	cfg.End = end
	cfg.Stride = stride
	cfg.Policy = policy
	cfg.Axes = axes
	cfg.Background = bg
	cfg.Append = appendRows
	cfg.Workers = workers
	cfg.FPS = fps
	cfg.Quality = quality
	cfg.Logger = log

	p, err := pipeline.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("Invalid arguments")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	res, err := p.Run(ctx)
	if err != nil {
		log.WithFields(logrus.Fields{
			"input":  cfg.Input,
			"output": cfg.Output,
		}).WithError(err).Fatal("Cropping failed")
	}
	if verbosity > 0 {
		fmt.Println(res.Summary)
	}
}

// policyFromFlags combines the -policy name with the -u and -f shorthands,
// which take precedence when given.
func policyFromFlags(name string, union, fixed bool) (reconcile.Policy, error) {
	if union || fixed {
		return reconcile.Select(false, union, fixed), nil
	}
	return reconcile.ParsePolicy(name)
}

// parseColor parses a hex rrggbb color; an empty string yields nil.
func parseColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return nil, nil
	}
	var r, g, b uint8
	if n, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil || n != 3 || len(s) != 6 {
		return nil, errors.Errorf("invalid background color %q, want rrggbb", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// logLevel maps the -v verbosity to a logrus level.
func logLevel(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.WarnLevel
	case verbosity == 1:
		return logrus.InfoLevel
	case verbosity == 2:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}
