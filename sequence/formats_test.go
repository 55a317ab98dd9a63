package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a.png", FormatImage, true},
		{"a.JPG", FormatImage, true},
		{"a.webp", FormatWebP, true},
		{"a.gif", FormatGIF, true},
		{"a.mp4", FormatVideo, true},
		{"a.AVI", FormatVideo, true},
		{"a.txt", FormatImage, false},
		{"a", FormatImage, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatOf(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequiresUniformSize(t *testing.T) {
	assert.True(t, RequiresUniformSize("out.mp4"))
	assert.True(t, RequiresUniformSize("out.gif"))
	assert.False(t, RequiresUniformSize("out.png"))
	assert.False(t, RequiresUniformSize("out_%06d.png"))
	assert.False(t, RequiresUniformSize("out.webp"))
}

func TestCodecFor(t *testing.T) {
	assert.Equal(t, "mp4v", codecFor("clip.MP4"))
	assert.Equal(t, "MJPG", codecFor("clip.avi"))
	assert.Equal(t, "MJPG", codecFor("clip.unknown"))
}
