package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		output     string
		report     string
		appendRows bool
		want       Paths
	}{
		{
			name:  "numbered input",
			input: "movie_000010.png",
			want: Paths{
				Input: "movie_%06d.png", Output: "movie.png", Report: "movie.csv",
				Begin: 10, Numbered: true,
			},
		},
		{
			name:  "pattern input",
			input: "clip_%04d.jpg",
			want:  Paths{Input: "clip_%04d.jpg", Output: "clip.jpg", Report: "clip.csv"},
		},
		{
			name:  "video input",
			input: "clip.mp4",
			want:  Paths{Input: "clip.mp4", Output: "clip.mp4", Report: "clip.csv"},
		},
		{
			name:   "explicit names",
			input:  "clip.mp4",
			output: "cropped_%06d.png",
			report: "false",
			want:   Paths{Input: "clip.mp4", Output: "cropped_%06d.png", Report: "false"},
		},
		{
			name:       "append keeps the single numbered frame",
			input:      "shots/frame_000042.png",
			appendRows: true,
			want: Paths{
				Input: "shots/frame_000042.png", Output: "shots/frame_000042.png",
				Report: "shots/frame.csv", Begin: 42,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.input, tt.output, tt.report, tt.appendRows))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Input, valid.Output = "in_%06d.png", "out_%06d.png"
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no input", func(c *Config) { c.Input = "" }},
		{"no output", func(c *Config) { c.Output = "" }},
		{"negative begin", func(c *Config) { c.Begin = -1 }},
		{"zero stride", func(c *Config) { c.Stride = 0 }},
		{"end before begin", func(c *Config) { c.Begin, c.End = 5, 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestReportEnabled(t *testing.T) {
	c := DefaultConfig()
	assert.False(t, c.ReportEnabled())
	c.Report = "no"
	assert.False(t, c.ReportEnabled())
	c.Report = "boxes.csv"
	assert.True(t, c.ReportEnabled())
}
