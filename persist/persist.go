// Package persist stores StatefulMachine snapshots as files, one per machine ID.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/typedfsm"
)

var ErrInvalidMachineID = errors.New("invalid machine ID")

type codec struct {
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var (
	jsonCodec = codec{
		ext:       ".json",
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	}
	yamlCodec = codec{
		ext:       ".yaml",
		marshal:   yaml.Marshal,
		unmarshal: yaml.Unmarshal,
	}
)

// FilePersister saves snapshots in dir using one codec.
type FilePersister[S any] struct {
	dir   string
	codec codec
}

// NewJSONPersister creates a JSON file persister, ensuring dir exists.
func NewJSONPersister[S any](dir string) (*FilePersister[S], error) {
	return newFilePersister[S](dir, jsonCodec)
}

// NewYAMLPersister creates a YAML file persister, ensuring dir exists.
func NewYAMLPersister[S any](dir string) (*FilePersister[S], error) {
	return newFilePersister[S](dir, yamlCodec)
}

// New picks the persister for format, "json" or "yaml".
func New[S any](dir, format string) (*FilePersister[S], error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONPersister[S](dir)
	case "yaml", "yml":
		return NewYAMLPersister[S](dir)
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
}

func newFilePersister[S any](dir string, c codec) (*FilePersister[S], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FilePersister[S]{dir: dir, codec: c}, nil
}

func (p *FilePersister[S]) Save(ctx context.Context, snapshot typedfsm.Snapshot[S]) error {
	fn, err := p.path(snapshot.MachineID)
	if err != nil {
		return err
	}

	data, err := p.codec.marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *FilePersister[S]) Load(ctx context.Context, machineID string) (typedfsm.Snapshot[S], error) {
	var snapshot typedfsm.Snapshot[S]

	fn, err := p.path(machineID)
	if err != nil {
		return snapshot, err
	}

	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snapshot, fmt.Errorf("machine %q: %w", machineID, os.ErrNotExist)
		}
		return snapshot, fmt.Errorf("read %s: %w", fn, err)
	}

	if err := p.codec.unmarshal(data, &snapshot); err != nil {
		return typedfsm.Snapshot[S]{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	snapshot.MachineID = machineID // the file name is authoritative

	return snapshot, nil
}

func (p *FilePersister[S]) path(machineID string) (string, error) {
	if machineID == "" || strings.ContainsAny(machineID, `/\`) || machineID == "." || machineID == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidMachineID, machineID)
	}
	return filepath.Join(p.dir, machineID+p.codec.ext), nil
}
