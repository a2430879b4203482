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

	"github.com/ruancomelli/psin/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var seriesHeader = []string{"time", "height", "kinetic", "potential", "mechanical"}

// Store keeps processed reports, one directory per report.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ReportMetadata struct {
	ID         string    `json:"id"`
	Simulation string    `json:"simulation"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	Particle   string    `json:"particle"`
	Timestep   float64   `json:"timestep"`
	// SampleInterval is the spacing of the stored series.
	SampleInterval float64            `json:"sample_interval"`
	Collisions     int                `json:"collisions"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes r and its energy history under a new id.
func (s *Store) Save(simulation, source string, r *metrics.Report, series metrics.EnergySeries) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("%s_%d", simulation, now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := ReportMetadata{
		ID:             id,
		Simulation:     simulation,
		Source:         source,
		Timestamp:      now,
		Particle:       r.Particle,
		Timestep:       r.Timestep,
		SampleInterval: r.SampleInterval,
		Collisions:     len(r.Collisions),
		Metrics: map[string]float64{
			"analytical_restitution": r.Analytical,
			"max_deviation":          r.MaxDeviation,
			"initial_energy":         r.InitialEnergy,
			"final_energy":           r.FinalEnergy,
			"mean_energy":            r.MeanEnergy,
			"drift":                  r.Drift,
			"max_relative_drift":     r.MaxRelativeDrift,
		},
	}

	if err := writeMetadata(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(dir, seriesFile), series); err != nil {
		return "", err
	}
	return id, nil
}

func writeMetadata(path string, meta ReportMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeSeries(path string, series metrics.EnergySeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(seriesHeader); err != nil {
		return err
	}
	for _, e := range series {
		row := []string{
			strconv.FormatFloat(e.Time, 'g', -1, 64),
			strconv.FormatFloat(e.Height, 'g', -1, 64),
			strconv.FormatFloat(e.Kinetic, 'g', -1, 64),
			strconv.FormatFloat(e.Potential, 'g', -1, 64),
			strconv.FormatFloat(e.Mechanical, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable report, oldest first.
func (s *Store) List() ([]ReportMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ReportMetadata{}, nil
		}
		return nil, err
	}

	reports := make([]ReportMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		reports = append(reports, *meta)
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].Timestamp.Equal(reports[j].Timestamp) {
			return reports[i].Timestamp.Before(reports[j].Timestamp)
		}
		return reports[i].ID < reports[j].ID
	})
	return reports, nil
}

func (s *Store) Load(id string) (*ReportMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta ReportMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	return &meta, nil
}

// LoadSeries reads back the energy history of report id. Time indices are
// not stored and come back as row numbers.
func (s *Store) LoadSeries(id string) (metrics.EnergySeries, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(seriesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	if len(records) < 2 {
		return metrics.EnergySeries{}, nil
	}

	series := make(metrics.EnergySeries, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [5]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("report %s row %d column %s: %w", id, i+1, seriesHeader[j], err)
			}
			vals[j] = v
		}
		series = append(series, metrics.EnergySample{
			TimeIndex:  i,
			Time:       vals[0],
			Height:     vals[1],
			Kinetic:    vals[2],
			Potential:  vals[3],
			Mechanical: vals[4],
		})
	}
	return series, nil
}
