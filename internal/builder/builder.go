// Package builder assembles the in-memory directory tree described by a
// source document.
package builder

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/mcncl/datapacker/internal/errors"
	"github.com/mcncl/datapacker/internal/formatter"
	"github.com/mcncl/datapacker/internal/models"
	"github.com/mcncl/datapacker/internal/pathkey"
	"github.com/mcncl/datapacker/internal/transformer"
)

// Builder turns a top-level source mapping into a DirEntry tree. File keys
// are transformed and encoded; folder keys recurse.
type Builder struct {
	transformer *transformer.Transformer
	formatter   *formatter.Formatter
	logger      *log.Logger
}

// NewBuilder creates a Builder with default transformer and formatter and a
// silent logger.
func NewBuilder() *Builder {
	return NewBuilderWith(transformer.NewTransformer(), formatter.NewFormatter(), log.New(io.Discard))
}

// NewBuilderWith creates a Builder from explicit collaborators.
func NewBuilderWith(t *transformer.Transformer, f *formatter.Formatter, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Builder{
		transformer: t,
		formatter:   f,
		logger:      logger,
	}
}

// Build returns the root folder for root, which must be a mapping.
func (b *Builder) Build(root models.SourceValue) (*models.DirEntry, error) {
	if root.Kind == models.KindNull {
		return nil, errors.NewShapeError("source document is empty", errors.ErrSourceEmpty)
	}
	if root.Kind != models.KindMapping {
		return nil, errors.NewShapeError(
			fmt.Sprintf("top-level value must be a mapping, got %s", root.Kind),
			errors.ErrExpectedMapping,
		)
	}
	return b.buildFolder(root, "")
}

func (b *Builder) buildFolder(value models.SourceValue, parent string) (*models.DirEntry, error) {
	folder := models.NewFolder()
	for _, pair := range value.Pairs {
		name, ok := pair.Key.AsString()
		if !ok {
			return nil, errors.NewKeyTypeError(fmt.Sprintf("key should be string, got %s", pair.Key.Describe()))
		}
		key := pathkey.Key(name)
		entry, err := b.buildEntry(key, pair.Value, joinPath(parent, name))
		if err != nil {
			return nil, errors.WithPath(err, name)
		}

		top, wrapped := pathkey.Resolve(key, entry)
		if folder.Put(top, wrapped) {
			b.logger.Warn("replacing earlier entry", "name", joinPath(parent, top), "key", name)
		}
	}
	return folder, nil
}

func (b *Builder) buildEntry(key pathkey.Key, value models.SourceValue, location string) (*models.DirEntry, error) {
	if key.IsFile() {
		out, err := b.transformer.Transform(value)
		if err != nil {
			return nil, err
		}
		content, err := b.formatter.Format(out)
		if err != nil {
			return nil, err
		}
		b.logger.Debug("resolved file", "key", location, "bytes", len(content))
		return models.NewFile(content), nil
	}

	if value.Kind != models.KindMapping {
		return nil, errors.NewShapeError(
			fmt.Sprintf("folder value must be a mapping, got %s", value.Kind),
			errors.ErrExpectedMapping,
		)
	}
	b.logger.Debug("resolved folder", "key", location, "entries", len(value.Pairs))
	return b.buildFolder(value, location)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + pathkey.Separator + name
}
