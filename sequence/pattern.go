package sequence

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPattern is the frame number format substituted into file names.
const DefaultPattern = "_%06d"

var (
	formatVerb   = regexp.MustCompile(`%[0-9]*d`)
	patternToken = regexp.MustCompile(`_?%[0-9]*d`)
)

// ContainsPattern reports whether name holds a printf frame number verb such
// as %d or %05d.
func ContainsPattern(name string) bool {
	return formatVerb.MatchString(name)
}

// StripPattern removes a frame number verb and the underscore before it, so
// movie_%06d.png becomes movie.png.
func StripPattern(name string) string {
	return patternToken.ReplaceAllString(name, "")
}

// FramePath substitutes the frame index into a pattern such as movie_%06d.png.
func FramePath(pattern string, frame int) string {
	return fmt.Sprintf(pattern, frame)
}

// splitNumbered splits name at the first underscore of its base name into the
// part before it, the digits that follow and the remainder. ok is false unless
// the digits are followed by a dot, as in movie_000123.png.
func splitNumbered(name string) (prefix, digits, rest string, ok bool) {
	base := strings.LastIndexAny(name, `/\`) + 1
	i := strings.IndexByte(name[base:], '_')
	if i < 0 {
		return name, "", "", false
	}
	i += base
	prefix = name[:i]
	j := i + 1
	for j < len(name) && name[j] >= '0' && name[j] <= '9' {
		j++
	}
	digits, rest = name[i+1:j], name[j:]
	return prefix, digits, rest, strings.HasPrefix(rest, ".")
}

// RemovePattern strips the frame number from a name of the form
// prefix_NNN.ext, so movie_000123.png becomes movie.png. Other names are
// returned unchanged.
func RemovePattern(name string) string {
	prefix, _, rest, ok := splitNumbered(name)
	if !ok {
		return name
	}
	return prefix + rest
}

// ReplacePattern swaps the frame number of a name of the form prefix_NNN.ext
// for sub.
//
// Arguments:
// - name: The file name, e.g. movie_000123.png.
// - sub: The replacement, e.g. DefaultPattern.
//
// Returns:
// - The rewritten name, e.g. movie_%06d.png; name unchanged if it has no number.
// - The parsed frame number and whether one was found.
func ReplacePattern(name, sub string) (string, int, bool) {
	prefix, digits, rest, ok := splitNumbered(name)
	n, found := 0, false
	if digits != "" {
		if v, err := strconv.Atoi(digits); err == nil {
			n, found = v, true
		}
	}
	if !ok {
		return name, n, found
	}
	return prefix + sub + rest, n, found
}

// FrameNumber returns the number following the first underscore of name, or
// 0 when there is none.
func FrameNumber(name string) int {
	_, digits, _, _ := splitNumbered(name)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ReplaceExtension swaps the extension of name for ext (which includes the
// dot). Names without an extension are returned unchanged.
func ReplaceExtension(name, ext string) string {
	old := filepath.Ext(name)
	if old == "" {
		return name
	}
	return strings.TrimSuffix(name, old) + ext
}

// NumberedPath inserts the frame index before the extension of name, so
// cropped.png becomes cropped_000007.png.
func NumberedPath(name string, frame int) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + fmt.Sprintf(DefaultPattern, frame) + ext
}
