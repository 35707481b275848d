package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"popsim/internal/popdyn"
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
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Species   int                `json:"species"`
	Sites     int                `json:"sites"`
	Window    int                `json:"window"`
	Steps     int                `json:"steps"`
	Force     float64            `json:"force"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Save writes one run directory: metadata.json plus series.csv holding the
// abundance table. Values are formatted with the shortest round-trippable
// representation so downstream consumers see full float64 precision.
func (s *Store) Save(meta RunMetadata, abundance *popdyn.Abundance) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"step"}
	for i := 0; i < abundance.Species(); i++ {
		header = append(header, fmt.Sprintf("species_%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for t := 0; t < abundance.Steps(); t++ {
		row := []string{strconv.Itoa(t)}
		for _, val := range abundance.Row(t) {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, w.Error()
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads a stored abundance table back into memory.
func (s *Store) LoadSeries(runID string) (*popdyn.Abundance, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: series.csv has no data rows", runID)
	}

	species := len(records[0]) - 1
	ab := popdyn.NewAbundance(species, len(records)-1)
	row := make([]float64, species)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != species+1 {
			return nil, fmt.Errorf("run %s: row %d has %d fields, want %d", runID, i, len(record), species+1)
		}
		for j := 0; j < species; j++ {
			val, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d field %d: %w", runID, i, j+1, err)
			}
			row[j] = val
		}
		ab.Append(row)
	}

	return ab, nil
}

// SeriesPath returns the on-disk CSV location for a run, for pass-through
// export.
func (s *Store) SeriesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "series.csv")
}
