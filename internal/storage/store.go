// Package storage persists finished runs under a data directory, one
// subdirectory per run with JSON metadata and a CSV of per-frame metric
// series.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/fluidlab/flip2d/internal/config"
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
	ID             string             `json:"id"`
	Scene          string             `json:"scene"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Resolution     int                `json:"resolution"`
	Dx             float64            `json:"dx"`
	FrameDt        float64            `json:"frame_dt"`
	Frames         int                `json:"frames"`
	SurfaceTension float64            `json:"surface_tension"`
	Viscosity      float64            `json:"viscosity"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save records one completed run. series maps metric name to its
// per-frame values; every series must be len(times) long. finals holds
// the last observed value per metric for the metadata summary.
func (s *Store) Save(cfg *config.Config, times []float64, series map[string][]float64, finals map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Scene:          cfg.Scene,
		Timestamp:      time.Now(),
		Seed:           cfg.Seed,
		Resolution:     cfg.Resolution,
		Dx:             cfg.Dx,
		FrameDt:        cfg.FrameDt,
		Frames:         cfg.Frames,
		SurfaceTension: cfg.SurfaceTension,
		Viscosity:      cfg.Viscosity,
		Metrics:        finals,
	}

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

	csvFile, err := os.Create(filepath.Join(runDir, "metrics.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	names := sortedKeys(series)
	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, t := range times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			v := 0.0
			if col := series[name]; i < len(col) {
				v = col[i]
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
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

// LoadSeries reads back the per-frame metric columns of a run.
func (s *Store) LoadSeries(runID string) (times []float64, series map[string][]float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "metrics.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, map[string][]float64{}, nil
	}

	header := records[0]
	series = make(map[string][]float64, len(header)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j := 1; j < len(rec); j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				v = 0
			}
			series[header[j]] = append(series[header[j]], v)
		}
	}
	return times, series, nil
}

func sortedKeys(m map[string][]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
