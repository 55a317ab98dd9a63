package sequence

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/nvr-ai/go-framecrop/images"
	"github.com/pkg/errors"
)

// FrameFile is a still image found in a sequence directory.
type FrameFile struct {
	// Path is the path to the image file.
	Path string
	// Frame is the frame number parsed from the name, or 0.
	Frame int
}

// ListDirectory finds the still images of a directory, sorted by frame number
// and then by name.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - The image files; other files and subdirectories are skipped.
// - ErrSequenceRead if the directory cannot be read.
func ListDirectory(dir string) ([]FrameFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(ErrSequenceRead, "%s: %v", dir, err)
	}

	var files []FrameFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if format, ok := FormatOf(e.Name()); !ok || format == FormatVideo || format == FormatGIF {
			continue
		}
		files = append(files, FrameFile{
			Path:  filepath.Join(dir, e.Name()),
			Frame: FrameNumber(e.Name()),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Frame != files[j].Frame {
			return files[i].Frame < files[j].Frame
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// loadDirectory reads the images of a directory in frame order, keeping the
// files whose frame number lies in [Begin, End] on the Stride grid.
func loadDirectory(ctx context.Context, src Source) ([]images.Frame, error) {
	files, err := ListDirectory(src.Path)
	if err != nil {
		return nil, err
	}
	stride := max(src.Stride, 1)

	var frames []images.Frame
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if file.Frame < src.Begin || (src.End >= 0 && file.Frame > src.End) {
			continue
		}
		if (file.Frame-src.Begin)%stride != 0 {
			continue
		}
		f, err := LoadImage(file.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", file.Frame)
		}
		frames = append(frames, f)
	}
	return frames, nil
}
