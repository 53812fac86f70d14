package svcctl

import (
	"fmt"
	"strings"
)

// Settings is the fully resolved configuration for one (service, config)
// pair: the formatted common mapping, overlaid with the chosen config's
// overrides, with the injected keys applied last. It is created fresh per
// invocation and read-only after resolution.
type Settings struct {
	Mapping
}

// Context lowers the settings to the untyped form used as a template
// rendering context.
func (s *Settings) Context() map[string]any {
	return s.Mapping.Interface()
}

// Env returns the env sub-mapping entries in order, or nil if the
// settings have no env mapping.
func (s *Settings) Env() []Pair {
	env, ok := s.Get(keyEnv)
	if !ok {
		return nil
	}
	m, ok := env.AsMapping()
	if !ok {
		return nil
	}
	return m.Pairs()
}

// Resolver materializes Settings from a service descriptor.
type Resolver struct {
	// Store loads service descriptors
	Store *Store

	// Config supplies the injected derived values
	Config *Config
}

// Resolve produces the final settings mapping for a (service, config)
// pair:
//
//  1. load the descriptor and verify the config exists
//  2. format every string leaf of common with {service}/{config}
//  3. shallow-overlay the chosen config's mapping
//  4. inject the five derived keys, which always win
//  5. if env_prefix is set, rewrite the env mapping's keys
//
// All failures occur before any external state is touched.
func (r *Resolver) Resolve(service, config string) (*Settings, error) {
	desc, err := r.Store.Load(service)
	if err != nil {
		return nil, err
	}

	overlay, ok := desc.Configs.Get(config)
	if !ok {
		return nil, fmt.Errorf("%w: [%s] for service [%s]", ErrConfigNotFound, config, service)
	}

	formatted, err := deepFormat(MappingValue(desc.Common.Clone()), service, config)
	if err != nil {
		return nil, err
	}
	merged, _ := formatted.AsMapping()

	// Config-level keys fully replace common keys of the same name; a
	// null config body means no overrides.
	if overlayMap, ok := overlay.AsMapping(); ok {
		for _, p := range overlayMap.Pairs() {
			merged.Set(p.Key, cloneValue(p.Value))
		}
	} else if overlay.Kind() != KindNull {
		return nil, fmt.Errorf("%w: config [%s] is not a mapping", ErrDescriptorInvalid, config)
	}

	merged.Set(KeyService, StringValue(service))
	merged.Set(KeyConfig, StringValue(config))
	merged.Set(KeyHome, StringValue(r.Config.InstallRoot))
	merged.Set(KeyInterpreter, StringValue(r.Config.InterpreterPath))
	merged.Set(KeyLoggingDir, StringValue(r.Config.LoggingDir))

	if desc.EnvPrefix != "" {
		if env, ok := merged.Get(keyEnv); ok {
			envMap, ok := env.AsMapping()
			if !ok {
				return nil, fmt.Errorf("%w: env is not a mapping", ErrDescriptorInvalid)
			}
			prefixed := NewMapping()
			for _, p := range envMap.Pairs() {
				prefixed.Set(desc.EnvPrefix+"_"+p.Key, p.Value)
			}
			merged.Set(keyEnv, MappingValue(prefixed))
		}
	}

	return &Settings{Mapping: *merged}, nil
}

// deepFormat applies {service}/{config} substitution to string leaves and
// recurses into mappings. Every other leaf, sequences included, passes
// through unchanged, so list elements keep their braces verbatim.
func deepFormat(v Value, service, config string) (Value, error) {
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()
		formatted, err := formatPlaceholders(s, service, config)
		if err != nil {
			return Value{}, err
		}
		return StringValue(formatted), nil
	case KindMapping:
		m, _ := v.AsMapping()
		out := NewMapping()
		for _, p := range m.Pairs() {
			fv, err := deepFormat(p.Value, service, config)
			if err != nil {
				return Value{}, err
			}
			out.Set(p.Key, fv)
		}
		return MappingValue(out), nil
	default:
		return v, nil
	}
}

// formatPlaceholders performs named substitution of {service} and {config}
// with doubled braces as literals. Any other placeholder name, and any
// unbalanced brace, is a template error.
func formatPlaceholders(s, service, config string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unterminated placeholder in %q", ErrTemplate, s)
			}
			name := s[i+1 : i+end]
			switch name {
			case "service":
				b.WriteString(service)
			case "config":
				b.WriteString(config)
			default:
				return "", fmt.Errorf("%w: unknown placeholder {%s} in %q", ErrTemplate, name, s)
			}
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("%w: unbalanced brace in %q", ErrTemplate, s)
		default:
			b.WriteByte(s[i])
			i++
		}
	}

	return b.String(), nil
}
