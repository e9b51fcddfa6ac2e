package filesystem

import (
	"io/fs"
	"path/filepath"
	"sort"

	"video2audio/domain/audio"
)

// Scanner enumerates candidate videos under a directory tree
type Scanner struct{}

// NewScanner creates a new candidate scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// ListCandidates returns every regular file under dir with a supported video
// extension, sorted lexicographically by path
func (s *Scanner) ListCandidates(dir string) ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && audio.IsSupportedVideo(path) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(candidates)
	return candidates, nil
}
