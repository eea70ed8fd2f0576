package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Entry is one configuration setting: a dotted, lower-cased key and its
// raw, unparsed value text.
type Entry struct {
	Key   string
	Value string
}

// Section is an ordered list of entries processed against one shared
// registry.
type Section struct {
	Name    string
	Entries []Entry
}

// FromMap builds a Section from a plain map. Keys are lower-cased and
// sorted so processing is deterministic.
func FromMap(name string, m map[string]string) Section {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	entries := make([]Entry, 0, len(m))
	for _, k := range keys {
		entries = append(entries, Entry{Key: strings.ToLower(k), Value: m[k]})
	}

	return Section{Name: name, Entries: entries}
}

// LoadYAML reads a single YAML document of named sections, preserving
// the document's key order. Nested mappings flatten into dotted keys,
// and scalar values are restringified so the expression parser sees
// uniform text.
func LoadYAML(r io.Reader) ([]Section, error) {
	var doc any

	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, ErrInvalidDocument.Wrap(err)
	}

	top, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, ErrInvalidDocument
	}

	sections := make([]Section, 0, len(top))

	for _, item := range top {
		name := scalarString(item.Key)

		body, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, ErrInvalidDocument
		}

		sec := Section{Name: name}
		flatten("", body, &sec.Entries)
		sections = append(sections, sec)
	}

	return sections, nil
}

func flatten(prefix string, body yaml.MapSlice, out *[]Entry) {
	for _, item := range body {
		key := strings.ToLower(scalarString(item.Key))
		if prefix != "" {
			key = prefix + "." + key
		}

		if nested, ok := item.Value.(yaml.MapSlice); ok {
			flatten(key, nested, out)

			continue
		}

		*out = append(*out, Entry{Key: key, Value: scalarString(item.Value)})
	}
}

// scalarString renders a decoded YAML scalar back to expression text.
// Floats use the shortest representation; an exponent's "+" sign is
// dropped since the expression grammar reads "e" as an infix operator
// with a bare numeric right operand.
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		// Integral floats keep a decimal point so the round trip
		// through the parser preserves their type.
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatFloat(val, 'f', 1, 64)
		}

		s := strconv.FormatFloat(val, 'g', -1, 64)

		return strings.ReplaceAll(s, "e+", "e")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = scalarString(item)
		}

		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
