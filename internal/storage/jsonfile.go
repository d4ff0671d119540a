package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// JSONFile persists snapshots as a single JSON document. Writes go through a
// temp file and rename so a crash never leaves a half-written snapshot, and
// the previous good file is kept as a .bak copy.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Path() string {
	return j.path
}

func (j *JSONFile) Load() (Snapshot, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", filepath.Base(j.path), err)
	}
	return snap, nil
}

func (j *JSONFile) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(compact(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if prev, err := os.ReadFile(j.path); err == nil {
		if err := os.WriteFile(j.path+".bak", prev, 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// decodeSnapshot tolerates files mangled by editors or sync clients: a BOM,
// stray NUL bytes, and trailing garbage after the first JSON value.
func decodeSnapshot(data []byte) (Snapshot, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = bytes.ReplaceAll(data, []byte{0x00}, nil)
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil && err != io.EOF {
		return Snapshot{}, err
	}
	return snap, nil
}
