// Package datasheet reads hardware datasheets: per-type, per-model parameter
// tables kept next to architecture descriptions.
//
// A datasheet is a JSON (or YAML) document of the form
//
//	{ "Cpu": { "fast": { "clock": "=2.4*1000", "cores": 8 } } }
//
// Lines may carry "//" comments. String values starting with "=" are
// arithmetic expressions, evaluated when the datasheet is loaded.
package datasheet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Datasheet maps a device type to its models and each model to its data.
type Datasheet map[string]map[string]any

// Format selects the document syntax.
type Format int

const (
	JSON Format = iota
	YAML
)

var lineComment = regexp.MustCompile(`//.*`)

// Load reads a datasheet file. Files ending in .yaml or .yml are parsed as
// YAML, anything else as JSON.
func Load(path string) (Datasheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasheet: %w", err)
	}
	format := JSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = YAML
	}
	ds, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("datasheet %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a datasheet document and evaluates its expressions.
func Parse(data []byte, format Format) (Datasheet, error) {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = lineComment.ReplaceAllString(line, "")
	}
	src := []byte(strings.Join(lines, "\n"))

	var raw map[string]any
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(src, &raw)
	default:
		err = json.Unmarshal(src, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse datasheet: %w", err)
	}

	ds := make(Datasheet, len(raw))
	for typ, v := range raw {
		models, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("type %q: expected a map of models, got %T", typ, v)
		}
		if err := evalTree(models); err != nil {
			return nil, fmt.Errorf("type %q: %w", typ, err)
		}
		ds[typ] = models
	}
	return ds, nil
}

// evalTree replaces, in place, every "=expr" string of a map tree with its
// value.
func evalTree(m map[string]any) error {
	for k, v := range m {
		switch x := v.(type) {
		case string:
			if !isExpr(x) {
				continue
			}
			f, err := Eval(x[1:])
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			m[k] = f
		case map[string]any:
			if err := evalTree(x); err != nil {
				return fmt.Errorf("%s.%w", k, err)
			}
		}
	}
	return nil
}

// isExpr matches "=" followed by anything but a second "=".
func isExpr(s string) bool {
	return len(s) > 1 && s[0] == '=' && s[1] != '='
}

// Merge returns a deep copy of a overlaid with b. A model present in both is
// replaced by b's; models are never merged key by key.
func Merge(a, b Datasheet) Datasheet {
	out := make(Datasheet, len(a)+len(b))
	for typ, models := range a {
		out[typ] = make(map[string]any, len(models))
		for model, data := range models {
			out[typ][model] = deepCopy(data)
		}
	}
	for typ, models := range b {
		if out[typ] == nil {
			out[typ] = make(map[string]any, len(models))
		}
		for model, data := range models {
			out[typ][model] = deepCopy(data)
		}
	}
	return out
}

// Lookup returns the data of one model.
func (ds Datasheet) Lookup(typ, model string) (map[string]any, bool) {
	data, ok := ds[typ][model].(map[string]any)
	return data, ok
}

// Attrs returns a model's data as a device attribute bag.
func (ds Datasheet) Attrs(typ, model string) (domain.Attrs, bool) {
	data, ok := ds.Lookup(typ, model)
	if !ok {
		return domain.Attrs{}, false
	}
	return domain.NewAttrs(data), true
}

// Decode fills out, a pointer to a struct, from a model's data. Fields are
// matched with mapstructure tags.
func (ds Datasheet) Decode(typ, model string, out any) error {
	data, ok := ds.Lookup(typ, model)
	if !ok {
		return fmt.Errorf("datasheet has no %s model %q", typ, model)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("decode %s model %q: %w", typ, model, err)
	}
	return nil
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}
