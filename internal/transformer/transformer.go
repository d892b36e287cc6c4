// Package transformer converts source values into JSON-shaped output values,
// expanding tags along the way.
package transformer

import (
	"fmt"

	"github.com/iancoleman/orderedmap"

	"github.com/mcncl/datapacker/internal/errors"
	"github.com/mcncl/datapacker/internal/expander"
	"github.com/mcncl/datapacker/internal/models"
)

// Transformer converts SourceValue trees into OutputValue trees.
type Transformer struct {
	expander *expander.Expander
}

// NewTransformer creates a Transformer with the default tag set.
func NewTransformer() *Transformer {
	return NewTransformerWithExpander(expander.NewExpander())
}

// NewTransformerWithExpander creates a Transformer using e for tag expansion.
func NewTransformerWithExpander(e *expander.Expander) *Transformer {
	return &Transformer{expander: e}
}

// Transform converts value. Objects are *orderedmap.OrderedMap in source key
// order, arrays are []any. The first error aborts the conversion.
func (t *Transformer) Transform(value models.SourceValue) (models.OutputValue, error) {
	switch value.Kind {
	case models.KindNull:
		return nil, nil
	case models.KindBool, models.KindNumber, models.KindString:
		return value.Scalar, nil
	case models.KindSequence:
		return t.transformSequence(value.Items)
	case models.KindMapping:
		return t.transformMapping(value.Pairs)
	case models.KindTagged:
		return t.transformTagged(value)
	default:
		return nil, errors.NewShapeError(fmt.Sprintf("unknown value kind %s", value.Kind), nil)
	}
}

// transformSequence splices every element's expansion into one array.
func (t *Transformer) transformSequence(items []models.SourceValue) (models.OutputValue, error) {
	out := make([]any, 0, len(items))
	for i, item := range items {
		expanded, err := t.expander.Expand(item)
		if err != nil {
			return nil, errors.WithPath(err, fmt.Sprintf("[%d]", i))
		}
		for _, v := range expanded {
			converted, err := t.Transform(v)
			if err != nil {
				return nil, errors.WithPath(err, fmt.Sprintf("[%d]", i))
			}
			out = append(out, converted)
		}
	}
	return out, nil
}

func (t *Transformer) transformMapping(pairs []models.Pair) (models.OutputValue, error) {
	out := orderedmap.New()
	for _, pair := range pairs {
		key, ok := pair.Key.AsString()
		if !ok {
			return nil, errors.NewKeyTypeError(fmt.Sprintf("key should be string, got %s", pair.Key.Describe()))
		}
		converted, err := t.Transform(pair.Value)
		if err != nil {
			return nil, errors.WithPath(err, key)
		}
		out.Set(key, converted)
	}
	return out, nil
}

// transformTagged handles a tag outside a sequence, where there is room for
// exactly one value.
func (t *Transformer) transformTagged(value models.SourceValue) (models.OutputValue, error) {
	if !value.IsTagged() {
		return nil, errors.NewShapeError(fmt.Sprintf("tag `!%s` has no payload", value.Tag), nil)
	}
	expanded, err := t.expander.Expand(value)
	if err != nil {
		return nil, err
	}
	if len(expanded) != 1 {
		return nil, errors.NewShapeError(
			fmt.Sprintf("tag `!%s` expanded to %d values where one was expected", value.Tag, len(expanded)),
			errors.ErrExpansionArity,
		)
	}
	return t.Transform(expanded[0])
}
