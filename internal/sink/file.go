package sink

import (
	"os"
	"path/filepath"
)

// File writes artifacts into a base directory on the local filesystem,
// creating it on first use.
type File struct {
	dir string
}

func NewFile(dir string) *File {
	if dir == "" {
		dir = "."
	}
	return &File{dir: dir}
}

func (f *File) Name() string { return "file:" + f.dir }

func (f *File) Write(filename string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(f.dir, filename), data, 0o644)
}
