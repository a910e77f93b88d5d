package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/storage"
)

// Artifact file names.
const (
	VectorsFile = "vectors.bin"
	ChunksFile  = "chunks.bin"
	CorpusFile  = "corpus.bin"
)

// Artifacts lists every file a complete snapshot consists of.
var Artifacts = []string{VectorsFile, ChunksFile, CorpusFile}

// Store reads and writes snapshot artifacts under a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

var _ storage.SnapshotStore = (*Store)(nil)

// NewStore returns a store rooted at dir. The directory is created on the
// first Persist.
func NewStore(dir string) storage.SnapshotStore {
	return newStore(dir)
}

func newStore(dir string) *Store {
	return &Store{
		dir:    dir,
		logger: slog.Default().With("component", "snapshot-store", "dir", dir),
	}
}

// Persist writes all three artifacts, overwriting any previous snapshot.
// Every artifact carries the same fresh generation id, so an interrupted
// Persist is detected by Load instead of mixing two builds.
func (s *Store) Persist(ctx context.Context, data *core.IndexData) error {
	if err := core.ValidateIndexData(data); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	generation := uuid.NewString()
	blobs := []struct {
		name string
		data []byte
	}{
		{VectorsFile, storage.MarshalArtifact(generation, storage.MarshalVectors(data.Vectors))},
		{ChunksFile, storage.MarshalArtifact(generation, storage.MarshalChunks(data.Chunks))},
		{CorpusFile, storage.MarshalArtifact(generation, storage.MarshalCorpus(data.Tokens))},
	}
	for _, blob := range blobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeAtomic(filepath.Join(s.dir, blob.name), blob.data); err != nil {
			return fmt.Errorf("writing %s: %w", blob.name, err)
		}
	}

	s.logger.Info("persisted index", "chunks", data.Len(), "dim", data.Vectors.Dim, "generation", generation)
	return nil
}

// Load reads all three artifacts back and checks that they agree.
func (s *Store) Load(ctx context.Context) (*core.IndexData, error) {
	missing, err := s.missing()
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, core.NewIndexNotFoundError(s.dir, missing...)
	}

	var generation string
	raw := make(map[string][]byte, len(Artifacts))
	for _, name := range Artifacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, core.NewIndexNotFoundError(s.dir, name)
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		gen, payload, err := storage.UnmarshalArtifact(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", core.ErrCorruptIndex, name, err)
		}
		if generation == "" {
			generation = gen
		} else if gen != generation {
			return nil, fmt.Errorf("%w: %s: %w", core.ErrCorruptIndex, name, storage.ErrMixedGenerations)
		}
		raw[name] = payload
	}

	vectors, err := storage.UnmarshalVectors(raw[VectorsFile])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorruptIndex, err)
	}
	chunks, err := storage.UnmarshalChunks(raw[ChunksFile])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorruptIndex, err)
	}
	corpus, err := storage.UnmarshalCorpus(raw[CorpusFile])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorruptIndex, err)
	}

	data := &core.IndexData{Chunks: chunks, Vectors: vectors, Tokens: corpus}
	if err := core.ValidateIndexData(data); err != nil {
		if errors.Is(err, core.ErrEmptyCorpus) {
			return nil, fmt.Errorf("%w: persisted index is empty", core.ErrCorruptIndex)
		}
		return nil, err
	}

	s.logger.Debug("loaded index", "chunks", data.Len(), "dim", vectors.Dim, "generation", generation)
	return data, nil
}

// Exists reports whether every artifact is present. Stat failures other
// than a missing file count as absent.
func (s *Store) Exists() bool {
	missing, err := s.missing()
	return err == nil && len(missing) == 0
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// missing lists the artifacts that do not exist. Any other stat failure is
// returned as is.
func (s *Store) missing() ([]string, error) {
	var missing []string
	for _, name := range Artifacts {
		info, err := os.Stat(filepath.Join(s.dir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, name)
		case err != nil:
			return nil, fmt.Errorf("checking %s: %w", name, err)
		case info.IsDir():
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// writeAtomic writes data to a temporary sibling of path, syncs it and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
