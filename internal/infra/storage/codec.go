package storage

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const snapshotVersion = 1

type envelope struct {
	Kind    string      `yaml:"kind"`
	Version int         `yaml:"version"`
	SavedAt time.Time   `yaml:"saved_at"`
	Records []yaml.Node `yaml:"records"`
}

type outEnvelope struct {
	Kind    string    `yaml:"kind"`
	Version int       `yaml:"version"`
	SavedAt time.Time `yaml:"saved_at"`
	Records []any     `yaml:"records"`
}

func encodeSnapshot(kind string, records []any, savedAt time.Time) ([]byte, error) {
	if records == nil {
		records = []any{}
	}
	data, err := yaml.Marshal(outEnvelope{
		Kind:    kind,
		Version: snapshotVersion,
		SavedAt: savedAt.UTC(),
		Records: records,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	return data, nil
}

// decodeEnvelope parses the outer document only; records stay raw so that
// one malformed entry cannot spoil the whole load.
func decodeEnvelope(kind string, data []byte) ([]yaml.Node, error) {
	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if env.Kind != kind {
		return nil, fmt.Errorf("%w: expected kind %q, got %q", ErrCorruptSnapshot, kind, env.Kind)
	}
	if env.Version > snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, env.Version)
	}
	return env.Records, nil
}
