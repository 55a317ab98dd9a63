// Package pipeline runs a complete cropping job: it loads a frame sequence,
// scans every frame for its autocrop box, reconciles the boxes, crops and
// writes the frames, and records the crop coordinates.
//
// Pipeline Overview:
//
//	┌────────────────────┐
//	│ sequence.Load      │  frames of one shape
//	└─────────┬──────────┘
//	┌─────────▼──────────┐
//	│ autocrop.ScanAll   │  one raw box per frame (parallel)
//	└─────────┬──────────┘
//	┌─────────▼──────────┐
//	│ reconcile          │  parity fix, policy, centers, offsets
//	└─────────┬──────────┘
//	┌─────────▼──────────┐
//	│ crop + Save        │  cropped sequence
//	└─────────┬──────────┘
//	┌─────────▼──────────┐
//	│ report             │  CSV rows, preview sheet, summary
//	└────────────────────┘
package pipeline

import (
	"context"

	"github.com/disintegration/imaging"
	"github.com/nvr-ai/go-framecrop/autocrop"
	"github.com/nvr-ai/go-framecrop/common"
	"github.com/nvr-ai/go-framecrop/images"
	"github.com/nvr-ai/go-framecrop/profiler"
	"github.com/nvr-ai/go-framecrop/reconcile"
	"github.com/nvr-ai/go-framecrop/report"
	"github.com/nvr-ai/go-framecrop/sequence"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of a run.
type Result struct {
	// Reconciled holds the final boxes, centers and offsets.
	Reconciled *reconcile.Result
	// Raw holds the boxes found by the scanner, before reconciliation.
	Raw []common.Box
	// Rows are the report rows, numbered Begin + i*Stride.
	Rows []report.Row
	// Frames are the cropped frames.
	Frames []images.Frame
	// Width and Height are the dimensions of the input frames.
	Width, Height int
	// Summary describes the reconciled sequence.
	Summary report.Summary
}

// Pipeline executes cropping runs.
type Pipeline struct {
	config   Config
	log      *logrus.Logger
	profiler *profiler.RuntimeProfiler
	last     *Result
}

// New creates a pipeline for config.
//
// Returns:
// - The pipeline.
// - ErrInvalidConfig when config fails validation.
func New(config Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		config:   config,
		log:      config.logger(),
		profiler: profiler.NewRuntimeProfiler(profiler.ProfilingOptions{}),
	}
	p.profiler.AddMetricsCollector(outputMetrics{p: p})
	return p, nil
}

// Profiler returns the profiler recording the run's stage timings.
func (p *Pipeline) Profiler() *profiler.RuntimeProfiler {
	return p.profiler
}

// Run executes the whole job. Any error aborts the run; nothing is retried.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.config
	p.log.WithFields(logrus.Fields{
		"function": "Run",
		"input":    cfg.Input,
		"output":   cfg.Output,
		"policy":   cfg.Policy.String(),
	}).Info("Read image sequence")

	stop := p.profiler.StartOperation("load")
	frames, err := sequence.Load(ctx, sequence.Source{
		Path:   cfg.Input,
		Begin:  cfg.Begin,
		End:    cfg.End,
		Stride: cfg.Stride,
	})
	stop()
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	res, err := p.Process(ctx, frames)
	if err != nil {
		return nil, err
	}

	if err := p.write(ctx, res); err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"function": "Run",
		"frames":   res.Summary.Frames,
		"policy":   res.Summary.Policy.String(),
		"min_size": res.Summary.MinSize,
		"max_size": res.Summary.MaxSize,
		"retained": res.Summary.Percent(),
	}).Info("Cropped image sequence")
	p.last = res
	p.profiler.Collect()
	p.profiler.Report(p.log)
	return res, nil
}

// outputMetrics reports the size of the last written sequence to the
// profiler.
type outputMetrics struct {
	p *Pipeline
}

func (m outputMetrics) CollectMetrics() map[string]float64 {
	res := m.p.last
	if res == nil {
		return nil
	}
	bounds := common.FullBox(res.Width, res.Height)
	pixels, padded := 0, 0
	for i, f := range res.Frames {
		pixels += f.Width * f.Height
		if !bounds.Contains(res.Reconciled.Boxes[i]) {
			padded++
		}
	}
	return map[string]float64{
		"output_frames":    float64(len(res.Frames)),
		"output_pixels":    float64(pixels),
		"padded_frames":    float64(padded),
		"retained_percent": float64(res.Summary.Percent()),
	}
}

// Process scans, reconciles and crops frames that are already in memory.
//
// Arguments:
// - ctx: Cancels the scan.
// - frames: The sequence, all frames sharing one shape.
//
// Returns:
// - The run result; nothing is written.
// - ErrEmptySequence, ErrDimensionMismatch, ErrInvalidAxis or ctx.Err().
func (p *Pipeline) Process(ctx context.Context, frames []images.Frame) (*Result, error) {
	cfg := p.config
	if err := images.CheckUniform(frames); err != nil {
		return nil, err
	}
	w, h, err := sequence.Dimensions(frames)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"function": "Process",
		"frames":   len(frames),
		"width":    w,
		"height":   h,
		"channels": frames[0].Channels,
	}).Debug("Image sequence loaded")

	axes, err := common.ParseAxes(cfg.Axes)
	if err != nil {
		return nil, err
	}

	stop := p.profiler.StartOperation("scan")
	raw, err := autocrop.ScanAll(ctx, frames, autocrop.Options{
		Axes:       axes,
		Workers:    cfg.Workers,
		Background: cfg.Background,
	})
	stop()
	if err != nil {
		return nil, errors.Wrap(err, "determine bounding boxes")
	}
	for i, b := range raw {
		p.profiler.RecordMetric("raw_area", float64(b.Width()*b.Height()))
		p.log.WithFields(logrus.Fields{
			"function": "Process",
			"frame":    cfg.Begin + i*cfg.Stride,
			"box":      b.String(),
		}).Trace("Autocrop region")
	}

	policy := reconcile.Resolve(sequence.RequiresUniformSize(cfg.Output), cfg.Policy)
	if policy != cfg.Policy {
		p.log.WithFields(logrus.Fields{
			"function":  "Process",
			"requested": cfg.Policy.String(),
			"policy":    policy.String(),
			"output":    cfg.Output,
		}).Info("Output stores one sequence file, cropping all frames to a fixed size")
	}

	stop = p.profiler.StartOperation("reconcile")
	rec, err := reconcile.Reconcile(raw, w, h, policy)
	stop()
	if err != nil {
		return nil, errors.Wrap(err, "reconcile bounding boxes")
	}
	for i, b := range rec.Boxes {
		p.log.WithFields(logrus.Fields{
			"function": "Process",
			"frame":    cfg.Begin + i*cfg.Stride,
			"box":      b.String(),
			"center":   rec.Centers[i],
			"offset":   rec.Offsets[i],
		}).Debug("Crop region")
	}
	if policy == reconcile.PolicyUnion {
		p.log.WithFields(logrus.Fields{
			"function": "Process",
			"box":      rec.Boxes[0].String(),
			"center":   rec.Centers[0],
		}).Debug("Union crop region")
	}

	stop = p.profiler.StartOperation("crop")
	cropped := make([]images.Frame, len(frames))
	for i, f := range frames {
		box := rec.Boxes[i]
		if !f.Bounds().Contains(box) {
			p.log.WithFields(logrus.Fields{
				"function": "Process",
				"frame":    cfg.Begin + i*cfg.Stride,
				"box":      box.String(),
			}).Debug("Crop region extends past the frame, padding with zeros")
		}
		if cropped[i], err = f.Crop(box); err != nil {
			stop()
			return nil, errors.Wrapf(err, "crop frame %d", i)
		}
	}
	stop()

	return &Result{
		Reconciled: rec,
		Raw:        raw,
		Rows:       report.Rows(rec, cfg.Begin, cfg.Stride),
		Frames:     cropped,
		Width:      w,
		Height:     h,
		Summary:    report.Summarize(rec, w, h),
	}, nil
}

// write stores the cropped frames, the report and the preview sheet.
func (p *Pipeline) write(ctx context.Context, res *Result) error {
	cfg := p.config

	indices := make([]int, len(res.Rows))
	for i, r := range res.Rows {
		indices[i] = r.Frame
	}

	p.log.WithFields(logrus.Fields{"function": "write", "output": cfg.Output}).Info("Writing cropped sequence")
	stop := p.profiler.StartOperation("save")
	err := sequence.Save(ctx, res.Frames, sequence.Destination{
		Path:    cfg.Output,
		Indices: indices,
		FPS:     cfg.FPS,
		Quality: cfg.Quality,
	})
	stop()
	if err != nil {
		return errors.Wrap(err, "save")
	}

	if cfg.ReportEnabled() {
		p.log.WithFields(logrus.Fields{
			"function": "write",
			"report":   cfg.Report,
			"append":   cfg.Append,
		}).Info("Writing bounding boxes")
		if err := report.WriteFile(cfg.Report, res.Rows, cfg.Append); err != nil {
			return err
		}
	}

	if cfg.Preview != "" {
		p.log.WithFields(logrus.Fields{"function": "write", "preview": cfg.Preview}).Info("Writing preview sheet")
		sheet, err := images.ContactSheet(res.Frames, images.SheetOptions{ThumbHeight: cfg.PreviewHeight})
		if err != nil {
			return errors.Wrap(err, "preview")
		}
		if err := imaging.Save(sheet, cfg.Preview); err != nil {
			return errors.Wrapf(sequence.ErrSequenceWrite, "%s: %v", cfg.Preview, err)
		}
	}
	return nil
}
