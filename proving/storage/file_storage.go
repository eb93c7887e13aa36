package storage

import (
	"io"
	"os"
	"path/filepath"
)

// FileStorage keeps every artifact as a plain file under one directory.
// Writers land in a temp file that replaces the target on Close, so a
// crashed write never leaves a half-written artifact behind.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) Storage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Reader(key string) (io.ReadCloser, error) {
	return os.Open(f.filename(key))
}

func (f *FileStorage) Writer(key string) (io.WriteCloser, error) {
	if err := os.MkdirAll(f.path, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(f.path, "."+key+".tmp*")
	if err != nil {
		return nil, err
	}
	return &atomicFile{File: tmp, target: f.filename(key)}, nil
}

func (f *FileStorage) filename(key string) string {
	return filepath.Join(f.path, key)
}

type atomicFile struct {
	*os.File
	target string
}

func (a *atomicFile) Close() error {
	if err := a.File.Close(); err != nil {
		_ = os.Remove(a.File.Name())
		return err
	}
	return os.Rename(a.File.Name(), a.target)
}
