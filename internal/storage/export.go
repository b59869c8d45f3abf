package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Metadata  RunMetadata `json:"metadata"`
	Times     []float64   `json:"times"`
	Probe     [][]float64 `json:"probe"`
	Snapshots []float64   `json:"snapshots"`
}

func (s *Store) export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	times, probe, err := s.LoadProbe(runID)
	if err != nil {
		return nil, err
	}
	snaps, err := s.Snapshots(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Metadata: *meta, Times: times, Probe: probe, Snapshots: snaps}, nil
}

// ExportJSON writes a run's metadata and probe trace to path.
func (s *Store) ExportJSON(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.WriteJSON(file, runID)
}

// WriteJSON is ExportJSON to an arbitrary writer such as stdout.
func (s *Store) WriteJSON(w io.Writer, runID string) error {
	data, err := s.export(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
