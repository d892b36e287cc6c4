// Package expander turns tagged source nodes into zero or more plain values.
package expander

import (
	"fmt"

	"github.com/mcncl/datapacker/internal/errors"
	"github.com/mcncl/datapacker/internal/models"
)

// TagNamespaced prefixes every entry with its namespace.
const TagNamespaced = "namespaced"

// TagFunc expands the payload of a tagged node.
type TagFunc func(payload models.SourceValue) ([]models.SourceValue, error)

// Expander resolves tagged nodes with a fixed set of tag handlers.
type Expander struct {
	handlers map[string]TagFunc
}

// NewExpander creates an Expander that knows the namespaced tag.
func NewExpander() *Expander {
	return &Expander{
		handlers: map[string]TagFunc{
			TagNamespaced: expandNamespaced,
		},
	}
}

// Expand returns the untagged values value stands for. A plain value expands
// to itself. A one-entry mapping whose key is tagged is rewritten so the tag
// covers the whole entry. Callers decide how many results they accept.
func (e *Expander) Expand(value models.SourceValue) ([]models.SourceValue, error) {
	if rewritten, ok := RewriteTaggedKey(value); ok {
		return e.Expand(rewritten)
	}
	if !value.IsTagged() {
		return []models.SourceValue{value}, nil
	}

	handler, ok := e.handlers[value.Tag]
	if !ok {
		return nil, errors.NewUnsupportedTagError(value.Tag)
	}
	return handler(*value.Payload)
}

// RewriteTaggedKey turns {!tag k: v} into !tag {k: v}.
func RewriteTaggedKey(value models.SourceValue) (models.SourceValue, bool) {
	if value.Kind != models.KindMapping || len(value.Pairs) != 1 {
		return value, false
	}
	pair := value.Pairs[0]
	if !pair.Key.IsTagged() {
		return value, false
	}
	return models.Tagged(pair.Key.Tag, models.Mapping(models.Pair{
		Key:   *pair.Key.Payload,
		Value: pair.Value,
	})), true
}

// expandNamespaced yields "namespace:entry" for every entry, in namespace
// insertion order and then list order.
func expandNamespaced(payload models.SourceValue) ([]models.SourceValue, error) {
	if payload.Kind != models.KindMapping {
		return nil, namespacedShapeError(fmt.Sprintf("got %s", payload.Kind))
	}

	var out []models.SourceValue
	for _, pair := range payload.Pairs {
		namespace, ok := pair.Key.AsString()
		if !ok {
			return nil, namespacedShapeError(fmt.Sprintf("namespace %s is not a string", pair.Key.Describe()))
		}
		if pair.Value.Kind != models.KindSequence {
			return nil, errors.WithPath(
				namespacedShapeError(fmt.Sprintf("entries must be a sequence, got %s", pair.Value.Kind)),
				namespace,
			)
		}
		for i, item := range pair.Value.Items {
			entry, ok := item.AsString()
			if !ok {
				return nil, errors.WithPath(
					namespacedShapeError(fmt.Sprintf("entry %s is not a string", item.Describe())),
					fmt.Sprintf("%s[%d]", namespace, i),
				)
			}
			out = append(out, models.String(namespace+":"+entry))
		}
	}
	return out, nil
}

func namespacedShapeError(detail string) error {
	return errors.NewShapeError(
		"namespaced only supports {string: [string]} maps",
		fmt.Errorf("%w: %s", errors.ErrExpectedMapping, detail),
	)
}
