package store

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// ArtifactStore saves and removes the report file that belongs to a task.
// Each task id maps to exactly one file name.
type ArtifactStore interface {
	// Save writes data as the artifact for id, replacing any previous file.
	// The artifact becomes visible only once it is fully written.
	Save(id string, data []byte) error

	// Remove deletes the artifact for id. A missing file yields an error
	// matching os.ErrNotExist.
	Remove(id string) error

	// Exists reports whether an artifact is present for id.
	Exists(id string) (bool, error)

	// Name returns the file name used for id's artifact, e.g. "<id>.html".
	Name(id string) string
}

// FileStore is an ArtifactStore over an afero filesystem rooted at the
// output directory.
type FileStore struct {
	fs  afero.Fs
	ext string
}

// NewFileStore creates a FileStore writing "<id><ext>" files into the root of fs.
func NewFileStore(fs afero.Fs, ext string) *FileStore {
	return &FileStore{fs: fs, ext: ext}
}

// NewDirFileStore creates the output directory if needed and returns a
// FileStore confined to it.
func NewDirFileStore(dir, ext string) (*FileStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return NewFileStore(afero.NewBasePathFs(osFs, dir), ext), nil
}

// Name returns the artifact file name for id.
func (s *FileStore) Name(id string) string {
	return id + s.ext
}

func (s *FileStore) pathFor(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidArtifactID, id)
	}
	return path.Join("/", s.Name(id)), nil
}

// Save writes data to a temporary file and renames it into place so readers
// never observe a partially written report.
func (s *FileStore) Save(id string, data []byte) error {
	target, err := s.pathFor(id)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, "/", "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write artifact %s: %w", target, err)
	}

	if err := s.fs.Rename(tmpName, target); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// Remove deletes the artifact for id.
func (s *FileStore) Remove(id string) error {
	target, err := s.pathFor(id)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(target); err != nil {
		return fmt.Errorf("failed to remove artifact %s: %w", target, err)
	}
	return nil
}

// Exists reports whether an artifact is present for id.
func (s *FileStore) Exists(id string) (bool, error) {
	target, err := s.pathFor(id)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, target)
}

// HTTPFileSystem exposes the stored artifacts for static serving.
func (s *FileStore) HTTPFileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs).Dir("/")
}

// IsNotExist reports whether err means the artifact was already absent.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

var _ ArtifactStore = (*FileStore)(nil)
