package audio

import (
	"path/filepath"
	"sort"
	"strings"
)

var supportedVideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
	".flv": true,
	".wmv": true,
	".m4v": true,
	".3gp": true,
}

// SupportedVideoExtensions returns the accepted input extensions, sorted
func SupportedVideoExtensions() []string {
	exts := make([]string, 0, len(supportedVideoExtensions))
	for ext := range supportedVideoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupportedVideo reports whether path has a supported video extension (case-insensitive)
func IsSupportedVideo(path string) bool {
	return supportedVideoExtensions[strings.ToLower(filepath.Ext(path))]
}

// ResolveDestination derives the output path for sourcePath: same base name with the
// format's extension, placed in destinationDir or next to the source when destinationDir is empty.
// It performs no I/O.
func ResolveDestination(sourcePath, destinationDir string, format Format) string {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + format.Extension()

	dir := destinationDir
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}
	return filepath.Join(dir, name)
}

// MirroredDir places sourcePath's directory, relative to sourceRoot, under destinationRoot.
// An empty destinationRoot yields "" (outputs go next to their sources).
func MirroredDir(sourceRoot, destinationRoot, sourcePath string) string {
	if destinationRoot == "" {
		return ""
	}
	rel, err := filepath.Rel(sourceRoot, sourcePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return destinationRoot
	}
	return filepath.Join(destinationRoot, filepath.Dir(rel))
}
