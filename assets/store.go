// Package assets manages the on-disk asset tree of the gallery: uploaded
// painting images, review images, icons and the canonical biography file.
//
// Public URLs map onto the tree by replacing the URL prefix with the root
// directory. Nothing here is synchronized; the admin is a single user.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// BiographyFile is the canonical biography markdown, relative to the root.
const BiographyFile = "biography.md"

// Subdirectories of the asset root.
const (
	PaintingsDir = "paintings"
	ReviewsDir   = "reviews"
	BiographyDir = "biography"
)

// ErrOutsideRoot is returned for relative paths that would escape the root.
var ErrOutsideRoot = errors.New("assets: path escapes asset root")

// Store is the asset tree rooted at a directory and served under a URL prefix.
type Store struct {
	root      string
	urlPrefix string
	logger    echo.Logger
}

// New returns a Store rooted at root and served under urlPrefix
// (e.g. "/uploads"). A nil logger falls back to a gommon logger.
func New(root, urlPrefix string, logger echo.Logger) *Store {
	if logger == nil {
		logger = log.New("assets")
	}
	return &Store{
		root:      filepath.Clean(root),
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		logger:    logger,
	}
}

// Root returns the root directory.
func (s *Store) Root() string { return s.root }

// URLPrefix returns the public URL prefix, with a leading and no trailing slash.
func (s *Store) URLPrefix() string { return s.urlPrefix }

// URLFor returns the public URL of a slash-separated relative path.
func (s *Store) URLFor(rel string) string {
	return s.urlPrefix + "/" + strings.TrimLeft(path.Clean("/"+rel), "/")
}

// PathFor maps a public URL back to a file path inside the root. It reports
// false for URLs outside the prefix or escaping the root.
func (s *Store) PathFor(url string) (string, bool) {
	rel, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || rel == "" {
		return "", false
	}
	p, err := s.resolve(rel)
	if err != nil {
		return "", false
	}
	return p, true
}

// resolve joins a slash-separated relative path onto the root, refusing
// anything that would climb out of it.
func (s *Store) resolve(rel string) (string, error) {
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "\\") {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(path.Clean(rel))), nil
}

// Exists reports whether the root directory exists.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.root)
	return err == nil && info.IsDir()
}

// WriteFile writes r to the slash-separated relative path rel, creating
// parent directories as needed.
func (s *Store) WriteFile(rel string, r io.Reader) error {
	p, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Remove deletes the file behind a public URL. Failures are logged and
// never returned; a missing file is fine.
func (s *Store) Remove(url string) {
	if url == "" {
		return
	}
	p, ok := s.PathFor(url)
	if !ok {
		s.logger.Warnf("[assets] not removing %q: outside asset store", url)
		return
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warnf("[assets] remove %s: %v", p, err)
	}
}

// Wipe removes every entry of the root and recreates the root directory.
// Individual failures are logged and counted, never fatal.
func (s *Store) Wipe() int {
	failures := 0
	entries, err := os.ReadDir(s.root)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Errorf("[assets] read %s: %v", s.root, err)
		failures++
	}
	for _, e := range entries {
		p := filepath.Join(s.root, e.Name())
		if err := os.RemoveAll(p); err != nil {
			s.logger.Errorf("[assets] wipe %s: %v", p, err)
			failures++
		}
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		s.logger.Errorf("[assets] recreate %s: %v", s.root, err)
		failures++
	}
	return failures
}

// Walk calls fn for every regular file under the root with its
// slash-separated relative path. A missing root is not an error.
func (s *Store) Walk(fn func(rel string, f *os.File) error) error {
	if !s.Exists() {
		return nil
	}
	return filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		return fn(filepath.ToSlash(rel), f)
	})
}

// List returns the sorted names of the regular files directly inside dir
// whose lowercased extension is in exts. A missing dir yields fs.ErrNotExist.
func (s *Store) List(dir string, exts map[string]bool) ([]string, error) {
	p, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns the contents of a slash-separated relative path.
func (s *Store) ReadFile(rel string) ([]byte, error) {
	p, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// ReadBiography returns the biography file content. ok is false when the
// file is missing or blank.
func (s *Store) ReadBiography() (content string, ok bool) {
	b, err := s.ReadFile(BiographyFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warnf("[assets] read biography: %v", err)
		}
		return "", false
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", false
	}
	return string(b), true
}

// WriteBiography overwrites the biography file.
func (s *Store) WriteBiography(content string) error {
	return s.WriteFile(BiographyFile, strings.NewReader(content))
}
