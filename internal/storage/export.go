package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times     []float64         `json:"times"`
	Steps     []int             `json:"steps"`
	Positions [][]float64       `json:"positions"`
	Final     []dynamo.Snapshot `json:"final"`
}

// ExportJSON writes a run's metadata, sampled positions and final state.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}
	final, err := s.LoadFinal(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Times:       make([]float64, len(history)),
		Steps:       make([]int, len(history)),
		Positions:   make([][]float64, len(history)),
		Final:       make([]dynamo.Snapshot, len(final.Bodies)),
	}
	for i, sample := range history {
		data.Times[i] = sample.Time
		data.Steps[i] = sample.Step
		data.Positions[i] = sample.Positions
	}
	for i := range final.Bodies {
		data.Final[i] = final.Bodies[i].Report()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
