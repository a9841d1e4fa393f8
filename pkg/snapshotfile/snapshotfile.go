// Package snapshotfile reads operations and volunteers from a YAML (or JSON) file
// shaped like {operations: [...], volunteers: [...]}.
package snapshotfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/relief-coordinator/pkg/core/engine"
)

type document struct {
	Operations []map[string]any `yaml:"operations"`
	Volunteers []map[string]any `yaml:"volunteers"`
}

// Source serves records decoded from a snapshot file
type Source struct {
	operations []engine.Record
	volunteers []engine.Record
}

// Load reads and decodes the snapshot file at path
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	source, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %s: %w", path, err)
	}
	return source, nil
}

// Decode reads a snapshot document. Unknown top-level keys are rejected.
func Decode(r io.Reader) (*Source, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("snapshot is empty")
		}
		return nil, err
	}

	return &Source{
		operations: toRecords(doc.Operations),
		volunteers: toRecords(doc.Volunteers),
	}, nil
}

// FetchOperations returns the decoded operation records
func (s *Source) FetchOperations(ctx context.Context) ([]engine.Record, error) {
	return s.operations, nil
}

// FetchVolunteers returns the decoded volunteer records
func (s *Source) FetchVolunteers(ctx context.Context) ([]engine.Record, error) {
	return s.volunteers, nil
}

// toRecords keeps null list entries as nil records so the importer reports them by index
func toRecords(items []map[string]any) []engine.Record {
	records := make([]engine.Record, len(items))
	for i, item := range items {
		if item != nil {
			records[i] = engine.Record(item)
		}
	}
	return records
}
