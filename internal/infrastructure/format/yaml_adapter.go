package format

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"gopkg.in/yaml.v3"
)

// YAMLAdapter renders records as a YAML sequence of mappings
type YAMLAdapter struct {
	base
}

var (
	_ Adapter      = (*YAMLAdapter)(nil)
	_ TextRenderer = (*YAMLAdapter)(nil)
)

// NewYAMLAdapter creates a new YAML adapter
func NewYAMLAdapter(provider service.RecordProvider, log logger.Logger) *YAMLAdapter {
	return &YAMLAdapter{base: newBase(provider, log)}
}

func (a *YAMLAdapter) Format() string    { return "yaml" }
func (a *YAMLAdapter) Extension() string { return "yaml" }

// Render fetches the records and returns them as a YAML document.
// Non-ASCII text is written as is; an empty set renders as "[]".
func (a *YAMLAdapter) Render(ctx context.Context) (string, error) {
	return EncodeYAML(a.provider.Fetch(ctx))
}

// Persist renders the records and writes them to path
func (a *YAMLAdapter) Persist(ctx context.Context, path string) error {
	doc, err := a.Render(ctx)
	if err != nil {
		return err
	}
	return a.writeFile(path, a.Format(), []byte(doc))
}

// EncodeYAML renders a record set as YAML. Mapping keys are sorted, the
// record's own field order only matters for JSON and CSV.
func EncodeYAML(records entity.RecordSet) (string, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, rec := range records {
		node, err := yamlNode(rec)
		if err != nil {
			return "", err
		}
		seq.Content = append(seq.Content, node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}

	return buf.String(), nil
}

// yamlNode builds the node for one value. Numbers keep their literal text.
func yamlNode(value interface{}) (*yaml.Node, error) {
	switch v := value.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	case json.Number:
		// the literal's shape decides, so integers past int64 stay !!int
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case *entity.Record:
		if v == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		}
		keys := append([]string(nil), v.Keys()...)
		sort.Strings(keys)

		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			field, _ := v.Get(k)
			child, err := yamlNode(field)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return m, nil
	case []interface{}:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	default:
		// anything else goes through the reflection based encoder
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}
