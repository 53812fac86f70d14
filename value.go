package svcctl

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKind identifies the concrete type held by a Value.
type ValueKind int

const (
	// KindNull represents an explicit null or absent value
	KindNull ValueKind = iota
	// KindString represents a string scalar
	KindString
	// KindBool represents a boolean scalar
	KindBool
	// KindInt represents an integer scalar
	KindInt
	// KindFloat represents a floating-point scalar
	KindFloat
	// KindMapping represents an ordered key/value mapping
	KindMapping
	// KindSequence represents an ordered list of values
	KindSequence
)

// String returns the string representation of a ValueKind
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "null"
	}
}

// Value is a tagged variant over the document types a service descriptor
// can contain: null, string, bool, int, float, mapping, or sequence.
// The zero Value is null.
type Value struct {
	kind ValueKind
	str  string
	b    bool
	i    int64
	f    float64
	m    *Mapping
	seq  []Value
}

// StringValue creates a string Value
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue creates a boolean Value
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue creates an integer Value
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue creates a floating-point Value
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// MappingValue creates a mapping Value
func MappingValue(m *Mapping) Value { return Value{kind: KindMapping, m: m} }

// SequenceValue creates a sequence Value
func SequenceValue(vals []Value) Value { return Value{kind: KindSequence, seq: vals} }

// Kind returns the concrete type held by the Value
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string content and whether the Value is a string
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsMapping returns the mapping content and whether the Value is a mapping
func (v Value) AsMapping() (*Mapping, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return v.m, true
}

// Text renders the Value as a plain string. Scalars use their canonical
// textual form; mappings and sequences fall back to a fmt rendering of
// their lowered representation.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindNull:
		return ""
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// Interface lowers the Value to untyped Go data: scalars become their
// native types, mappings become map[string]any, sequences become []any.
// Used to build template contexts.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindMapping:
		return v.m.Interface()
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// UnmarshalYAML decodes a YAML node into a Value, preserving mapping order
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	val, err := valueFromNode(node)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func valueFromNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return valueFromNode(node.Alias)

	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Value{}, nil
		}
		return valueFromNode(node.Content[0])

	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return Value{}, nil
		case "!!bool":
			b, err := strconv.ParseBool(node.Value)
			if err != nil {
				return Value{}, fmt.Errorf("line %d: invalid bool %q", node.Line, node.Value)
			}
			return BoolValue(b), nil
		case "!!int":
			i, err := strconv.ParseInt(node.Value, 0, 64)
			if err != nil {
				return Value{}, fmt.Errorf("line %d: invalid int %q", node.Line, node.Value)
			}
			return IntValue(i), nil
		case "!!float":
			f, err := strconv.ParseFloat(node.Value, 64)
			if err != nil {
				return Value{}, fmt.Errorf("line %d: invalid float %q", node.Line, node.Value)
			}
			return FloatValue(f), nil
		default:
			return StringValue(node.Value), nil
		}

	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: non-scalar mapping key", keyNode.Line)
			}
			val, err := valueFromNode(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			m.Set(keyNode.Value, val)
		}
		return MappingValue(m), nil

	case yaml.SequenceNode:
		seq := make([]Value, 0, len(node.Content))
		for _, item := range node.Content {
			val, err := valueFromNode(item)
			if err != nil {
				return Value{}, err
			}
			seq = append(seq, val)
		}
		return SequenceValue(seq), nil

	default:
		return Value{}, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

// Pair is a single key/value entry of a Mapping
type Pair struct {
	Key   string
	Value Value
}

// Mapping is an insertion-ordered string-keyed mapping. Overlays and
// injected keys rely on explicit ordering rather than Go map iteration,
// so resolution output is deterministic.
type Mapping struct {
	pairs []Pair
	index map[string]int
}

// NewMapping creates an empty Mapping
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Len returns the number of entries
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Get returns the value for key and whether it is present
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.pairs[i].Value, true
}

// Set stores key to value. An existing key is replaced in place, keeping
// its original position; a new key is appended.
func (m *Mapping) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.pairs[i].Value = v
		return
	}
	m.index[key] = len(m.pairs)
	m.pairs = append(m.pairs, Pair{Key: key, Value: v})
}

// Keys returns the keys in insertion order
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of the entries in insertion order
func (m *Mapping) Pairs() []Pair {
	if m == nil {
		return nil
	}
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Clone returns a deep copy of the mapping structure. Scalar values are
// copied by value; nested mappings are cloned recursively.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return NewMapping()
	}
	out := NewMapping()
	for _, p := range m.pairs {
		out.Set(p.Key, cloneValue(p.Value))
	}
	return out
}

func cloneValue(v Value) Value {
	switch v.kind {
	case KindMapping:
		return MappingValue(v.m.Clone())
	case KindSequence:
		seq := make([]Value, len(v.seq))
		for i, item := range v.seq {
			seq[i] = cloneValue(item)
		}
		return SequenceValue(seq)
	default:
		return v
	}
}

// Interface lowers the mapping to map[string]any
func (m *Mapping) Interface() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for _, p := range m.pairs {
		out[p.Key] = p.Value.Interface()
	}
	return out
}

// SortedKeys returns the keys in lexical order, for stable diagnostics
func (m *Mapping) SortedKeys() []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}

// UnmarshalYAML decodes a YAML mapping node into a Mapping
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	val, err := valueFromNode(node)
	if err != nil {
		return err
	}
	mapping, ok := val.AsMapping()
	if !ok {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, val.Kind())
	}
	*m = *mapping
	return nil
}
