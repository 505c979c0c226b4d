package vectorindex

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
)

// A persisted index is two co-located files sharing a base path: the binary
// vector file and a JSON metadata sidecar whose i-th element describes the
// vector stored at position i.
const (
	indexSuffix    = ".index"
	metadataSuffix = "_metadata.json"
)

// indexFile is the gob-encoded on-disk form of the vectors.
type indexFile struct {
	Metric  Metric
	Dim     int
	Count   int
	Vectors [][]float32
}

// IndexPath returns the binary vector file path for a base path.
func IndexPath(base string) string { return base + indexSuffix }

// MetadataPath returns the metadata sidecar path for a base path.
func MetadataPath(base string) string { return base + metadataSuffix }

// Save writes the binary vector file and the metadata sidecar in lockstep.
// The vector file is written via a temp file and rename so a crash cannot
// leave a half-written index next to a stale sidecar.
func (ix *Index[M]) Save(base string) error {
	path := IndexPath(base)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	enc := gob.NewEncoder(f)
	if err := enc.Encode(indexFile{
		Metric:  ix.metric,
		Dim:     ix.dim,
		Count:   len(ix.vectors),
		Vectors: ix.vectors,
	}); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename index file: %w", err)
	}

	data, err := json.MarshalIndent(ix.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(MetadataPath(base), data, 0o644); err != nil {
		return fmt.Errorf("write metadata sidecar: %w", err)
	}
	return nil
}

// Load reads an index+sidecar pair written by Save. It fails with
// ErrCorruptIndex when the sidecar is missing or its record count disagrees
// with the vector count recorded in the binary file.
func Load[M any](base string) (*Index[M], error) {
	f, err := os.Open(IndexPath(base))
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var file indexFile
	if err := gob.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorruptIndex, IndexPath(base), err)
	}
	if len(file.Vectors) != file.Count {
		return nil, fmt.Errorf("%w: %s holds %d vectors but records %d",
			ErrCorruptIndex, IndexPath(base), len(file.Vectors), file.Count)
	}

	data, err := os.ReadFile(MetadataPath(base))
	if err != nil {
		return nil, fmt.Errorf("%w: metadata sidecar: %v", ErrCorruptIndex, err)
	}
	var meta []M
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: decode metadata sidecar: %v", ErrCorruptIndex, err)
	}
	if len(meta) != file.Count {
		return nil, fmt.Errorf("%w: sidecar has %d records for %d vectors",
			ErrCorruptIndex, len(meta), file.Count)
	}

	return &Index[M]{
		metric:  file.Metric,
		dim:     file.Dim,
		vectors: file.Vectors,
		meta:    meta,
	}, nil
}
