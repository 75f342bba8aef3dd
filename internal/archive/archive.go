// Package archive packs a benchmark directory into a gzip-compressed tar.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IPDSnelting/velcom/internal/logger"
	"github.com/klauspost/compress/gzip"
)

// FileName is the upload file name. The server picks the codec from the
// ".tar.gz" suffix.
const FileName = "bench.tar.gz"

// ErrArchive matches every Error.
var ErrArchive = errors.New("archive failed")

// Error reports a local I/O failure while building an archive.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to archive %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrArchive }

// Stats summarizes a written archive.
type Stats struct {
	Files int
	Dirs  int
	Links int
	Bytes int64
}

// Builder writes archives. The zero value is not usable; call New.
type Builder struct {
	log *slog.Logger
}

// New returns a Builder logging skipped entries to log.
func New(log *slog.Logger) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{log: log.With(logger.Scope("archive"))}
}

// Write streams the contents of dir as tar.gz into w. Entry names are
// relative to dir, so the directory's own name never appears. Regular files
// and symlinks are stored; directories only get their own entry when empty.
func (b *Builder) Write(ctx context.Context, dir string, w io.Writer) (Stats, error) {
	var stats Stats

	root, err := filepath.Abs(dir)
	if err != nil {
		return stats, &Error{Path: dir, Err: err}
	}
	// WalkDir does not descend into a symlinked root.
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return stats, &Error{Path: dir, Err: err}
	}
	info, err := os.Stat(root)
	if err != nil {
		return stats, &Error{Path: root, Err: err}
	}
	if !info.IsDir() {
		return stats, &Error{Path: root, Err: fmt.Errorf("not a directory")}
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return &Error{Path: path, Err: err}
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return &Error{Path: path, Err: err}
		}

		switch {
		case info.IsDir():
			entries, err := os.ReadDir(path)
			if err != nil {
				return &Error{Path: path, Err: err}
			}
			if len(entries) > 0 {
				return nil
			}
			if err := b.writeHeader(tw, info, name+"/", ""); err != nil {
				return &Error{Path: path, Err: err}
			}
			stats.Dirs++

		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return &Error{Path: path, Err: err}
			}
			if err := b.writeHeader(tw, info, name, target); err != nil {
				return &Error{Path: path, Err: err}
			}
			stats.Links++

		case info.Mode().IsRegular():
			n, err := b.writeFile(ctx, tw, path, info, name)
			if err != nil {
				return &Error{Path: path, Err: err}
			}
			stats.Files++
			stats.Bytes += n

		default:
			b.log.Warn("skipping special file", slog.String("path", name), slog.String("mode", info.Mode().String()))
		}

		return nil
	})
	if walkErr != nil {
		return stats, walkErr
	}

	if err := tw.Close(); err != nil {
		return stats, &Error{Path: root, Err: err}
	}
	if err := gz.Close(); err != nil {
		return stats, &Error{Path: root, Err: err}
	}

	b.log.Debug("archive written",
		slog.String("dir", root),
		slog.Int("files", stats.Files),
		slog.Int("dirs", stats.Dirs),
		slog.Int("links", stats.Links),
		slog.Int64("bytes", stats.Bytes))

	return stats, nil
}

func (b *Builder) writeHeader(tw *tar.Writer, info fs.FileInfo, name, link string) error {
	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	return tw.WriteHeader(hdr)
}

func (b *Builder) writeFile(ctx context.Context, tw *tar.Writer, path string, info fs.FileInfo, name string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := b.writeHeader(tw, info, name, ""); err != nil {
		return 0, err
	}

	return io.CopyN(tw, contextReader{ctx: ctx, r: f}, info.Size())
}

// contextReader stops reading once ctx is done so large files do not delay
// cancellation.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
