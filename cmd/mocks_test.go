package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"video2audio/domain/audio"
)

// memFS is an in-memory audio.FileSystem and candidate lister
type memFS struct {
	mu    sync.Mutex
	files map[string]int64
	dirs  map[string]bool
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string]int64), dirs: make(map[string]bool)}
}

func (m *memFS) addFile(path string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = size
	for dir := filepath.Dir(path); dir != "." && dir != "/" && !m.dirs[dir]; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
}

func (m *memFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok || m.dirs[path]
}

func (m *memFS) Size(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	size, ok := m.files[path]
	if !ok {
		return 0, fmt.Errorf("%s: no such file", path)
	}
	return size, nil
}

func (m *memFS) EnsureDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[dir] = true
	return nil
}

func (m *memFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memFS) ListCandidates(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for path := range m.files {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) && audio.IsSupportedVideo(path) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}

// fakeBackend "decodes" files registered in silent as having no audio and writes
// outputs into the memFS
type fakeBackend struct {
	fs         *memFS
	silent     map[string]bool
	opened     []string
	written    []string
	params     []audio.EncodingParams
	shouldFail bool
	failError  error
}

func newFakeBackend(fs *memFS) *fakeBackend {
	return &fakeBackend{fs: fs, silent: make(map[string]bool)}
}

func (b *fakeBackend) Open(ctx context.Context, path string) (*audio.MediaHandle, error) {
	b.opened = append(b.opened, path)
	return &audio.MediaHandle{
		Path:       path,
		Container:  "mov,mp4,m4a,3gp,3g2,mj2",
		HasAudio:   !b.silent[path],
		AudioCodec: "aac",
		SampleRate: 48000,
		Channels:   2,
	}, nil
}

func (b *fakeBackend) WriteAudio(ctx context.Context, handle *audio.MediaHandle, outputPath string, params audio.EncodingParams) error {
	if b.shouldFail {
		return b.failError
	}
	b.written = append(b.written, outputPath)
	b.params = append(b.params, params)
	b.fs.addFile(outputPath, 1024)
	return nil
}

// verifiableBackend adds VerifyInstalled to fakeBackend
type verifiableBackend struct {
	*fakeBackend
	verifyErr error
}

func (b *verifiableBackend) VerifyInstalled(ctx context.Context) error {
	return b.verifyErr
}

// recordingSink collects log lines
type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *recordingSink) contains(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func newTestDependencies(fs *memFS, backend audio.MediaBackend, sink *recordingSink) Dependencies {
	return Dependencies{
		Backend: backend,
		FS:      fs,
		Lister:  fs,
		Sink:    sink,
	}
}

// scriptedPrompter answers prompts in order and records the messages
type scriptedPrompter struct {
	answers  []string
	messages []string
}

var errScriptExhausted = errors.New("no scripted answer left")

func (p *scriptedPrompter) next(message string) (string, error) {
	p.messages = append(p.messages, message)
	if len(p.answers) == 0 {
		return "", errScriptExhausted
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) Input(message string, defaultValue string) (string, error) {
	a, err := p.next(message)
	if a == "<default>" {
		return defaultValue, err
	}
	return a, err
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	a, err := p.next(message)
	if a == "<default>" {
		return defaultValue, err
	}
	return a == "yes", err
}

func (p *scriptedPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	a, err := p.next(message)
	if a == "<default>" {
		return defaultValue, err
	}
	return a, err
}
