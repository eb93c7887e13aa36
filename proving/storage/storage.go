package storage

import (
	"io"
)

// Storage is a key-value artifact store. Readers for keys that were never
// written fail with an error satisfying errors.Is(err, fs.ErrNotExist).
// Writers replace the whole value on Close.
type Storage interface {
	Reader(key string) (io.ReadCloser, error)
	Writer(key string) (io.WriteCloser, error)
}

func ReadAll(s Storage, key string) ([]byte, error) {
	reader, err := s.Reader(key)
	if err != nil {
		return nil, err
	}
	contents, err := io.ReadAll(reader)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}
	return contents, reader.Close()
}

func WriteAll(s Storage, key string, data []byte) error {
	writer, err := s.Writer(key)
	if err != nil {
		return err
	}
	if _, err = writer.Write(data); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}
