// Package writer materializes DirEntry trees on a filesystem.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mandelsoft/vfs/pkg/vfs"
	pkgerrors "github.com/pkg/errors"

	"github.com/mcncl/datapacker/internal/errors"
	"github.com/mcncl/datapacker/internal/models"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// Writer creates folders and files on fs. Nothing is rolled back on error;
// entries written before a failure stay in place.
type Writer struct {
	fs     vfs.FileSystem
	logger *log.Logger
}

// NewWriter creates a Writer for fs. A nil logger discards output.
func NewWriter(fs vfs.FileSystem, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Writer{fs: fs, logger: logger}
}

// Write makes location on the filesystem match entry. Folders are created
// along with missing parents; files are created or overwritten.
func (w *Writer) Write(entry *models.DirEntry, location string) error {
	if entry.IsFolder() {
		if err := w.fs.MkdirAll(location, dirMode); err != nil {
			return errors.NewIOError(
				fmt.Sprintf("failed to create directory '%s'", location),
				pkgerrors.WithStack(err),
			)
		}
		w.logger.Debug("created directory", "path", location)
		for _, name := range entry.Names {
			if err := w.Write(entry.Children[name], vfs.Join(w.fs, location, name)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := vfs.WriteFile(w.fs, location, entry.Content, fileMode); err != nil {
		return errors.NewIOError(
			fmt.Sprintf("failed to write file '%s'", location),
			pkgerrors.WithStack(err),
		)
	}
	w.logger.Debug("wrote file", "path", location, "bytes", len(entry.Content))
	return nil
}
