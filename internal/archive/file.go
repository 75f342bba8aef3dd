package archive

import (
	"context"
	"io"
	"os"
)

// File is a finished archive in a temporary file, positioned at its start.
// Close removes the file.
type File struct {
	*os.File
	Stats Stats
	Size  int64
}

// Close closes and removes the temporary file.
func (f *File) Close() error {
	closeErr := f.File.Close()
	if err := os.Remove(f.File.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return closeErr
}

// Build writes the archive of dir to a temporary file and rewinds it for
// reading. The caller owns the returned File and must Close it.
func (b *Builder) Build(ctx context.Context, dir string) (*File, error) {
	tmp, err := os.CreateTemp("", "velcom-*.tar.gz")
	if err != nil {
		return nil, &Error{Path: dir, Err: err}
	}
	f := &File{File: tmp}

	stats, err := b.Write(ctx, dir, tmp)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.Stats = stats

	size, err := tmp.Seek(0, io.SeekCurrent)
	if err == nil {
		_, err = tmp.Seek(0, io.SeekStart)
	}
	if err != nil {
		f.Close()
		return nil, &Error{Path: tmp.Name(), Err: err}
	}
	f.Size = size

	return f, nil
}
