package svcctl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Descriptor is the declarative definition of one service: a common
// settings mapping shared by all configs, per-config override mappings,
// and an optional prefix applied to env keys during resolution.
type Descriptor struct {
	// Service is the service name the descriptor was loaded for
	Service string

	// Common is the settings mapping shared by all configs
	Common *Mapping

	// Configs maps config names to their override mappings
	Configs *Mapping

	// EnvPrefix, when set, is prepended to every key of the env mapping
	EnvPrefix string
}

// Store loads service descriptors from a directory of YAML documents,
// one file per service.
type Store struct {
	// Dir is the directory containing <service>.yaml documents
	Dir string
}

// Load reads and validates the descriptor for a service. A missing file
// is ErrDescriptorNotFound; an unreadable, unparseable, or structurally
// invalid document is ErrDescriptorInvalid. Load has no side effects.
func (s *Store) Load(service string) (*Descriptor, error) {
	path := filepath.Join(s.Dir, service+".yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: service [%s] (%s)", ErrDescriptorNotFound, service, path)
		}
		return nil, fmt.Errorf("%w: service [%s]: %v", ErrDescriptorInvalid, service, err)
	}

	var doc Value
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: service [%s]: %v", ErrDescriptorInvalid, service, err)
	}

	root, ok := doc.AsMapping()
	if !ok {
		return nil, fmt.Errorf("%w: service [%s]: document is not a mapping", ErrDescriptorInvalid, service)
	}

	desc := &Descriptor{Service: service, Common: NewMapping()}

	if common, ok := root.Get("common"); ok && common.Kind() != KindNull {
		m, ok := common.AsMapping()
		if !ok {
			return nil, fmt.Errorf("%w: service [%s]: common is not a mapping", ErrDescriptorInvalid, service)
		}
		desc.Common = m
	}

	configs, ok := root.Get("configs")
	if !ok {
		return nil, fmt.Errorf("%w: service [%s]: missing configs", ErrDescriptorInvalid, service)
	}
	configsMap, ok := configs.AsMapping()
	if !ok || configsMap.Len() == 0 {
		return nil, fmt.Errorf("%w: service [%s]: configs is empty", ErrDescriptorInvalid, service)
	}
	desc.Configs = configsMap

	if prefix, ok := root.Get("env_prefix"); ok && prefix.Kind() != KindNull {
		str, ok := prefix.AsString()
		if !ok {
			return nil, fmt.Errorf("%w: service [%s]: env_prefix is not a string", ErrDescriptorInvalid, service)
		}
		desc.EnvPrefix = str
	}

	return desc, nil
}
