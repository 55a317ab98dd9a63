package sequence

import (
	"path/filepath"
	"strings"
)

// Format is the storage kind of a sequence source or destination.
type Format int

const (
	// FormatImage is a still image format storing one frame per file.
	FormatImage Format = iota
	// FormatWebP is a still WebP image.
	FormatWebP
	// FormatGIF is a (possibly animated) GIF holding the whole sequence.
	FormatGIF
	// FormatVideo is a video container holding the whole sequence.
	FormatVideo
)

var videoExtensions = map[string]bool{
	".avi": true, ".mov": true, ".mp4": true, ".mkv": true, ".m4v": true,
	".mpg": true, ".mpeg": true, ".wmv": true, ".ogv": true,
}

// videoCodecs maps a container extension to the FourCC used to write it.
var videoCodecs = map[string]string{
	".avi":  "MJPG",
	".mkv":  "MJPG",
	".mov":  "mp4v",
	".mp4":  "mp4v",
	".m4v":  "mp4v",
	".mpg":  "PIM1",
	".mpeg": "PIM1",
	".wmv":  "WMV2",
	".ogv":  "THEO",
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// FormatOf classifies path by its extension.
//
// Returns:
// - The format and true, or false for an unsupported extension.
func FormatOf(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return FormatVideo, true
	case ext == ".gif":
		return FormatGIF, true
	case ext == ".webp":
		return FormatWebP, true
	case imageExtensions[ext]:
		return FormatImage, true
	}
	return FormatImage, false
}

// RequiresUniformSize reports whether dest stores the whole sequence in one
// file, which forces every frame to share one size.
func RequiresUniformSize(dest string) bool {
	if ContainsPattern(dest) {
		return false
	}
	f, _ := FormatOf(dest)
	return f == FormatVideo || f == FormatGIF
}

func codecFor(path string) string {
	if c, ok := videoCodecs[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return "MJPG"
}
