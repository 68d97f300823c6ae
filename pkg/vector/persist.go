package vector

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

const (
	// VectorFile is the binary artifact holding the stored vectors.
	VectorFile = "vectors.f32"

	// MetaFile is the JSON artifact holding the aligned chunk metadata.
	MetaFile = "meta.json"

	formatMagic   = "SKVX"
	formatVersion = uint32(1)
)

// Save writes the index and its aligned metadata to dir as two artifacts:
// VectorFile (magic, version, dim, count header followed by little-endian
// float32 rows) and MetaFile (a JSON array where element i describes the
// vector at offset i).
//
// Both files are written to temporary paths and swapped in with os.Rename,
// so a concurrent reader sees either the old artifact or the new one, never
// a torn write.
func Save(dir string, ix *Index, metadata []ChunkMeta) error {
	if ix.Len() != len(metadata) {
		return fmt.Errorf("metadata length %d does not match vector count %d", len(metadata), ix.Len())
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}

	vecBuf := make([]byte, 0, 16+len(ix.vectors)*4)
	vecBuf = append(vecBuf, formatMagic...)
	vecBuf = binary.LittleEndian.AppendUint32(vecBuf, formatVersion)
	vecBuf = binary.LittleEndian.AppendUint32(vecBuf, uint32(ix.dim))
	vecBuf = binary.LittleEndian.AppendUint32(vecBuf, uint32(ix.Len()))
	for _, f := range ix.vectors {
		vecBuf = binary.LittleEndian.AppendUint32(vecBuf, math.Float32bits(f))
	}

	metaBuf, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, VectorFile), vecBuf); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, MetaFile), metaBuf); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	return nil
}

// Load restores the index and metadata pair from dir. It fails with
// ErrMissingIndex when either artifact is absent; a restored pair reproduces
// bit-identical search rankings to the index it was saved from.
func Load(dir string) (*Index, []ChunkMeta, error) {
	vecData, err := os.ReadFile(filepath.Join(dir, VectorFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrMissingIndex
		}
		return nil, nil, fmt.Errorf("reading vectors: %w", err)
	}

	metaData, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrMissingIndex
		}
		return nil, nil, fmt.Errorf("reading metadata: %w", err)
	}

	ix, err := decodeVectors(vecData)
	if err != nil {
		return nil, nil, err
	}

	var metadata []ChunkMeta
	if err := json.Unmarshal(metaData, &metadata); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding metadata: %v", ErrCorruptIndex, err)
	}

	if ix.Len() != len(metadata) {
		return nil, nil, fmt.Errorf("%w: %d vectors but %d metadata entries", ErrCorruptIndex, ix.Len(), len(metadata))
	}

	return ix, metadata, nil
}

func decodeVectors(data []byte) (*Index, error) {
	if len(data) < 16 || string(data[:4]) != formatMagic {
		return nil, fmt.Errorf("%w: bad vector file header", ErrCorruptIndex)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported vector file version %d", ErrCorruptIndex, version)
	}
	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	count := int(binary.LittleEndian.Uint32(data[12:16]))
	if dim <= 0 {
		return nil, fmt.Errorf("%w: invalid dimension %d", ErrCorruptIndex, dim)
	}

	body := data[16:]
	if len(body) != count*dim*4 {
		return nil, fmt.Errorf("%w: expected %d vector bytes, have %d", ErrCorruptIndex, count*dim*4, len(body))
	}

	vectors := make([]float32, count*dim)
	for i := range vectors {
		vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}

	return &Index{dim: dim, vectors: vectors}, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over path. Rename within one filesystem is atomic on POSIX systems.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
