package pipeline

import (
	"image/color"
	"runtime"

	"github.com/nvr-ai/go-framecrop/images"
	"github.com/nvr-ai/go-framecrop/reconcile"
	"github.com/nvr-ai/go-framecrop/report"
	"github.com/nvr-ai/go-framecrop/sequence"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of one cropping run.
type Config struct {
	// Input is the source sequence: a file or a pattern such as movie_%06d.png.
	Input string
	// Output is the destination: a container, a pattern or an image name.
	Output string
	// Report is the CSV coordinate file; empty, "false", "no" or "0" skip it.
	Report string
	// Preview is an optional contact sheet image of the cropped frames.
	Preview string
	// Begin is the index of the first frame of a pattern input.
	Begin int
	// End is the index of the last frame of a pattern input; -1 reads until
	// the first missing file.
	End int
	// Stride is the increment between frame indices.
	Stride int
	// Policy is the requested reconciliation policy. Destinations that store
	// the sequence in one file force reconcile.PolicyFixed.
	Policy reconcile.Policy
	// Axes are the scanned axes, e.g. "yx".
	Axes string
	// Background is the background color of every frame; nil guesses it per
	// frame from the corners.
	Background color.Color
	// Append adds rows to an existing report instead of replacing it.
	Append bool
	// Workers is the number of frames scanned concurrently.
	Workers int
	// FPS is the frame rate of video and GIF output.
	FPS float64
	// Quality is the JPEG and WebP output quality.
	Quality int
	// PreviewHeight is the thumbnail height of the contact sheet.
	PreviewHeight int
	// Logger receives progress messages; nil uses the logrus standard logger.
	Logger *logrus.Logger
}

// DefaultConfig returns a Config with every optional field set to its default.
func DefaultConfig() Config {
	return Config{
		End:           -1,
		Stride:        1,
		Policy:        reconcile.PolicyIndependent,
		Axes:          "yx",
		Workers:       runtime.NumCPU(),
		FPS:           25,
		Quality:       95,
		PreviewHeight: images.DefaultThumbHeight,
	}
}

// Validate checks the settings that would otherwise fail late in a run.
func (c Config) Validate() error {
	if c.Input == "" || c.Output == "" {
		return errors.Wrap(ErrInvalidConfig, "no input or output image sequence specified")
	}
	if c.Begin < 0 {
		return errors.Wrapf(ErrInvalidConfig, "invalid frame start index: %d", c.Begin)
	}
	if c.Stride < 1 {
		return errors.Wrapf(ErrInvalidConfig, "invalid frame index increment: %d", c.Stride)
	}
	if c.End >= 0 && c.End < c.Begin {
		return errors.Wrapf(ErrInvalidConfig, "last frame index %d before first %d", c.End, c.Begin)
	}
	return nil
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// Paths are the file names of a run after defaults are applied.
type Paths struct {
	Input  string
	Output string
	Report string
	// Begin is the first frame index parsed from a numbered input, or 0.
	Begin int
	// Numbered reports whether Begin was parsed from the input name.
	Numbered bool
}

// Derive fills in the default output and report names for an input.
//
// A numbered input such as movie_000010.png is rewritten to the pattern
// movie_%06d.png starting at frame 10. Without an explicit output the
// cropped frames go to the input name with its number removed (movie.png),
// or, in append mode, to the input itself. Without an explicit report the
// coordinates go next to the output with a .csv extension.
//
// Arguments:
// - input: The input sequence name.
// - output: The output name, or "" for the default.
// - reportPath: The report name, or "" for the default.
// - appendRows: Whether the run appends to an existing report.
func Derive(input, output, reportPath string, appendRows bool) Paths {
	p := Paths{Input: input, Output: output, Report: reportPath}

	defaultOutput := sequence.StripPattern(sequence.RemovePattern(input))
	if appendRows {
		defaultOutput = input
	}
	if p.Output == "" {
		p.Output = defaultOutput
	}
	if p.Report == "" {
		base := p.Output
		if appendRows {
			base = sequence.RemovePattern(base)
		}
		p.Report = sequence.ReplaceExtension(sequence.StripPattern(base), ".csv")
	}

	p.Begin = sequence.FrameNumber(input)
	if defaultOutput != input && !sequence.ContainsPattern(input) {
		pattern, n, found := sequence.ReplacePattern(input, sequence.DefaultPattern)
		p.Input = pattern
		p.Begin, p.Numbered = n, found
	}
	return p
}

// ReportEnabled reports whether the run writes a coordinate report.
func (c Config) ReportEnabled() bool {
	return !report.Disabled(c.Report)
}
