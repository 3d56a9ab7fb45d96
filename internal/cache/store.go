// Package cache persists the normalized syscall table as a single YAML document.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"gopkg.in/yaml.v3"
)

// Store reads and writes the cache blob at a fixed path.
// It is not safe for concurrent use across processes.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Save replaces the cache with entries and returns how many were written.
func (s *Store) Save(entries []syscalls.Entry) (int, error) {
	data, err := encode(entries)
	if err != nil {
		return 0, fmt.Errorf("encode > %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return 0, fmt.Errorf("os.CreateTemp(%s) > %w", dir, err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return 0, fmt.Errorf("file.Write > %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return 0, fmt.Errorf("os.Rename(%s) > %w", s.path, err)
	}
	return len(entries), nil
}

// Load returns the cached entries in the order they were saved.
func (s *Store) Load() ([]syscalls.Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("no cache found, run the cache command first: %w", err)
		}
		return nil, &syscalls.CacheError{Path: s.path, Err: err}
	}

	entries, err := decode(data)
	if err != nil {
		return nil, &syscalls.CacheError{Path: s.path, Err: err}
	}
	return entries, nil
}

type document struct {
	Entries []record `yaml:"entries"`
}

type record struct {
	Name       string `yaml:"name"`
	Params     params `yaml:"params"`
	Definition string `yaml:"definition"`
}

type params struct {
	EAX string `yaml:"eax"`
	EBX string `yaml:"ebx"`
	ECX string `yaml:"ecx"`
	EDX string `yaml:"edx"`
	ESI string `yaml:"esi"`
	EDI string `yaml:"edi"`
}

func encode(entries []syscalls.Entry) ([]byte, error) {
	doc := document{
		Entries: make([]record, 0, len(entries)),
	}
	for _, entry := range entries {
		p := entry.Params()
		doc.Entries = append(doc.Entries, record{
			Name: entry.Name(),
			Params: params{
				EAX: p[syscalls.SlotEAX],
				EBX: p[syscalls.SlotEBX],
				ECX: p[syscalls.SlotECX],
				EDX: p[syscalls.SlotEDX],
				ESI: p[syscalls.SlotESI],
				EDI: p[syscalls.SlotEDI],
			},
			Definition: entry.Definition(),
		})
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("yaml.Encoder.Encode > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("yaml.Encoder.Close > %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) ([]syscalls.Entry, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("yaml.Decoder.Decode > %w", err)
	}

	entries := make([]syscalls.Entry, 0, len(doc.Entries))
	for i, r := range doc.Entries {
		if r.Name == "" {
			return nil, fmt.Errorf("entry %d has no name", i)
		}
		entries = append(entries, syscalls.NewEntry(r.Name, syscalls.Params{
			r.Params.EAX,
			r.Params.EBX,
			r.Params.ECX,
			r.Params.EDX,
			r.Params.ESI,
			r.Params.EDI,
		}, r.Definition))
	}
	return entries, nil
}
