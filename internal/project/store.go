package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Ext is the file extension of stored projects.
const Ext = ".yaml"

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Summary describes a stored project for listings. Files that fail to parse
// are still listed, with Error set.
type Summary struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Created  time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Modified time.Time `json:"modified" yaml:"modified"`
	Path     string    `json:"path" yaml:"path"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Store keeps projects as <id>.yaml files in one directory.
type Store struct {
	dir    string
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "project-store").Logger(),
		now:    time.Now,
	}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for id.
func (s *Store) Path(id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	return filepath.Join(s.dir, id+Ext), nil
}

// List returns stored projects, most recently modified first.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), Ext)
		path := filepath.Join(s.dir, entry.Name())
		sum := Summary{ID: id, Name: id, Path: path}

		if info, err := entry.Info(); err == nil {
			sum.Modified = info.ModTime()
		}

		p, err := Read(path)
		if err != nil {
			s.logger.Debug().Err(err).Str("path", path).Msg("Skipping unreadable project")
			sum.Error = "invalid project file"
			out = append(out, sum)
			continue
		}
		if p.Meta.Name != "" {
			sum.Name = p.Meta.Name
		}
		sum.Created = p.Meta.Created
		if !p.Meta.Modified.IsZero() {
			sum.Modified = p.Meta.Modified
		}
		out = append(out, sum)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Modified.After(out[j].Modified)
	})
	return out, nil
}

// Load reads the project stored under id.
func (s *Store) Load(id string) (*Project, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}
	p, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Save stores p under id and returns the id used. An empty id is derived
// from the project name and the current time.
func (s *Store) Save(id string, p *Project) (string, error) {
	now := s.now()
	if id == "" {
		id = fmt.Sprintf("%s_%d", safeName(p.Meta.Name), now.Unix())
	}
	path, err := s.Path(id)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create projects directory: %w", err)
	}

	if p.Meta.Created.IsZero() {
		p.Meta.Created = now
	}
	p.Meta.Modified = now

	if err := Write(p, path); err != nil {
		return "", fmt.Errorf("failed to save project %s: %w", id, err)
	}

	s.logger.Info().Str("id", id).Str("path", path).Msg("Project saved")
	return id, nil
}

// Delete removes the project stored under id.
func (s *Store) Delete(id string) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return err
	}
	s.logger.Info().Str("id", id).Msg("Project deleted")
	return nil
}

// Latest returns the path of the most recently modified project file.
func (s *Store) Latest() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to read projects directory: %w", err)
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = filepath.Join(s.dir, entry.Name())
			latestMod = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no project files in %s: %w", s.dir, ErrNotFound)
	}
	return latest, nil
}

func safeName(name string) string {
	if name == "" {
		name = "untitled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
