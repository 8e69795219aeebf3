package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/ingest"
	"github.com/san-kum/nbodysim/internal/report"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "bodies.csv"
	finalFile    = "final.txt"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID              string             `json:"id"`
	Input           string             `json:"input"`
	Timestamp       time.Time          `json:"timestamp"`
	G               float64            `json:"g"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	CheckDegenerate bool               `json:"check_degenerate"`
	Bodies          int                `json:"bodies"`
	Radius          float64            `json:"radius"`
	Steps           int                `json:"steps"`
	Labels          []string           `json:"labels"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Run is everything Save persists about a finished simulation.
type Run struct {
	Input   string
	Sim     *dynamo.Simulation
	History []Sample
}

// Save writes metadata.json, bodies.csv and final.txt into a new run
// directory and returns its id. Non-finite metric values are omitted from
// the metadata since JSON cannot carry them.
func (s *Store) Save(run Run) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir, err := s.createRunDir(fmt.Sprintf("%s_%d", runName(run.Input), now.UnixNano()))
	if err != nil {
		return "", err
	}

	final := run.Sim.Report()
	p := run.Sim.Params()
	res := run.Sim.Result()

	meta := RunMetadata{
		ID:              runID,
		Input:           run.Input,
		Timestamp:       now,
		G:               p.G,
		Dt:              p.Dt,
		Duration:        p.Duration,
		CheckDegenerate: p.CheckDegenerate,
		Bodies:          len(final),
		Radius:          run.Sim.Radius(),
		Steps:           run.Sim.Steps(),
		Labels:          make([]string, len(final)),
		Metrics:         make(map[string]float64, len(res.Metrics)),
	}
	for i, b := range final {
		meta.Labels[i] = b.Label
	}
	for k, v := range res.Metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			meta.Metrics[k] = v
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), meta.Labels, run.History); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, run.Sim.Radius(), final); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, finalFile), buf.Bytes(), 0644); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) createRunDir(base string) (string, string, error) {
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

func runName(input string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return '-'
		}
		return r
	}, name)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistory(path string, labels []string, history []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"step", "time"}
	for _, l := range labels {
		header = append(header, l+".x", l+".y")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, sample := range history {
		row := []string{
			strconv.Itoa(sample.Step),
			strconv.FormatFloat(sample.Time, 'g', -1, 64),
		}
		for _, v := range sample.Positions {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFinal parses the stored final report back into a universe.
func (s *Store) LoadFinal(runID string) (*ingest.Universe, error) {
	return ingest.Load(filepath.Join(s.baseDir, runID, finalFile))
}

func (s *Store) LoadHistory(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Sample{}, nil
	}

	history := make([]Sample, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", historyFile, i+1, err)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", historyFile, i+1, err)
		}

		pos := make([]float64, 0, len(record)-2)
		for _, raw := range record[2:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", historyFile, i+1, err)
			}
			pos = append(pos, v)
		}
		history = append(history, Sample{Step: step, Time: t, Positions: pos})
	}

	return history, nil
}
