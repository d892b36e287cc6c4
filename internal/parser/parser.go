package parser

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/datapacker/internal/errors"
	"github.com/mcncl/datapacker/internal/models"
)

// Parse reads a YAML document from reader and converts it into a SourceValue.
// An empty document yields the null value.
func Parse(reader io.Reader) (models.SourceValue, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.SourceValue{}, errors.NewInputError("failed to read source document", err)
	}
	return ParseBytes(data)
}

// ParseBytes converts raw YAML bytes into a SourceValue.
func ParseBytes(data []byte) (models.SourceValue, error) {
	var doc yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Null(), nil
		}
		return models.SourceValue{}, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}
	return convert(&doc)
}

// ParseString parses YAML from a string
func ParseString(source string) (models.SourceValue, error) {
	return ParseBytes([]byte(source))
}

// ParseFile parses the YAML document at filePath on fs.
func ParseFile(fs vfs.FileSystem, filePath string) (models.SourceValue, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.SourceValue{}, errors.NewInputError("source path is empty", errors.ErrInvalidFilePath)
	}
	data, err := vfs.ReadFile(fs, filePath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return models.SourceValue{}, errors.NewInputError(
				fmt.Sprintf("source '%s' not found", filePath),
				pkgerrors.WithStack(err),
			)
		}
		return models.SourceValue{}, errors.NewInputError(
			fmt.Sprintf("failed to read source '%s'", filePath),
			pkgerrors.WithStack(err),
		)
	}
	return ParseBytes(data)
}

// convert maps a yaml.v3 node onto the SourceValue model. Aliases are resolved
// to the anchored node and custom tags ("!name") become Tagged values.
func convert(node *yaml.Node) (models.SourceValue, error) {
	switch node.Kind {
	case 0:
		return models.Null(), nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return models.Null(), nil
		}
		return convert(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return models.SourceValue{}, errors.NewParsingError(
				fmt.Sprintf("unresolved alias '*%s' at line %d", node.Value, node.Line),
				errors.ErrInvalidYAML,
			)
		}
		return convert(node.Alias)
	}

	if tag, ok := customTag(node); ok {
		untagged := *node
		untagged.Tag = ""
		untagged.Style &^= yaml.TaggedStyle
		payload, err := convert(&untagged)
		if err != nil {
			return models.SourceValue{}, err
		}
		return models.Tagged(tag, payload), nil
	}

	switch node.Kind {
	case yaml.SequenceNode:
		items := make([]models.SourceValue, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := convert(child)
			if err != nil {
				return models.SourceValue{}, err
			}
			items = append(items, item)
		}
		return models.Sequence(items...), nil
	case yaml.MappingNode:
		pairs := make([]models.Pair, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := convert(node.Content[i])
			if err != nil {
				return models.SourceValue{}, err
			}
			value, err := convert(node.Content[i+1])
			if err != nil {
				return models.SourceValue{}, err
			}
			pairs = append(pairs, models.Pair{Key: key, Value: value})
		}
		return models.Mapping(pairs...), nil
	case yaml.ScalarNode:
		return convertScalar(node)
	default:
		return models.SourceValue{}, errors.NewParsingError(
			fmt.Sprintf("unsupported YAML node kind %d at line %d", node.Kind, node.Line),
			errors.ErrInvalidYAML,
		)
	}
}

func convertScalar(node *yaml.Node) (models.SourceValue, error) {
	switch node.ShortTag() {
	case "!!null":
		return models.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return models.SourceValue{}, scalarError(node, err)
		}
		return models.Bool(b), nil
	case "!!int":
		var n any
		if err := node.Decode(&n); err != nil {
			return models.SourceValue{}, scalarError(node, err)
		}
		return models.Number(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return models.SourceValue{}, scalarError(node, err)
		}
		return models.Number(models.Float(f)), nil
	default:
		// Strings, timestamps, binary and the merge key all keep their literal text.
		return models.String(node.Value), nil
	}
}

func scalarError(node *yaml.Node, err error) error {
	return errors.NewParsingError(
		fmt.Sprintf("invalid scalar %q at line %d", node.Value, node.Line),
		err,
	)
}

// coreTags are the YAML 1.2 tags that describe the data model itself.
var coreTags = map[string]bool{
	"!!null": true, "!!bool": true, "!!int": true, "!!float": true, "!!str": true,
	"!!seq": true, "!!map": true, "!!binary": true, "!!timestamp": true, "!!merge": true,
}

// customTag reports the name of an explicit tag that is not a core tag. Local
// tags ("!namespaced") lose their "!"; global tags keep their full text in the
// verbatim form "<tag:example.com,2000:foo>" so they can be reported as written.
func customTag(node *yaml.Node) (string, bool) {
	if node.Tag == "" || node.Tag == "!" {
		return "", false
	}
	tag := node.ShortTag()
	switch {
	case coreTags[tag]:
		return "", false
	case strings.HasPrefix(tag, "!"):
		return strings.TrimPrefix(tag, "!"), true
	default:
		return "<" + tag + ">", true
	}
}
