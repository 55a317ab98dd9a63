package sequence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"shot_10.png", "shot_2.png", "shot_007.jpg", "notes.txt", "clip.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub_1.png"), 0o755))

	files, err := ListDirectory(dir)
	require.NoError(t, err)
	var frames []int
	for _, f := range files {
		frames = append(frames, f.Frame)
	}
	assert.Equal(t, []int{2, 7, 10}, frames)
	assert.Equal(t, filepath.Join(dir, "shot_2.png"), files[0].Path)

	_, err = ListDirectory(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrSequenceRead)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	for i, n := range []int{3, 1, 5, 4} {
		f := testFrame(t, 6, 6, 0, i)
		require.NoError(t, SaveImage(f, filepath.Join(dir, FramePath("frame_%03d.png", n)), 95))
	}

	all, err := Load(context.Background(), Source{Path: dir, End: -1, Stride: 1})
	require.NoError(t, err)
	require.Len(t, all, 4)
	// Frame 1 was written second, with a 2x2 square.
	assert.Equal(t, testFrame(t, 6, 6, 0, 1).Pix, all[0].Pix)

	some, err := Load(context.Background(), Source{Path: dir, Begin: 3, End: 5, Stride: 2})
	require.NoError(t, err)
	assert.Len(t, some, 2)

	_, err = Load(context.Background(), Source{Path: dir, Begin: 9, End: -1, Stride: 1})
	assert.ErrorIs(t, err, ErrSequenceEmpty)
}
