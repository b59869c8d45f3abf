package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/rdsim/internal/rd"
)

const (
	metadataFile = "metadata.json"
	probeFile    = "probe.csv"
	snapshotDir  = "snapshots"
	snapshotExt  = ".dat"
)

var ErrNoRun = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Dimension int                `json:"dimension"`
	Boundary  string             `json:"boundary"`
	Dt        float64            `json:"dt"`
	Dh        float64            `json:"dh"`
	NX        int                `json:"nx"`
	NY        int                `json:"ny"`
	Fields    int                `json:"fields"`
	GridStep  int                `json:"grid_step"`
	Probe     [2]int             `json:"probe"`
	Steps     int                `json:"steps"`
	Elapsed   float64            `json:"elapsed"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// MetadataFor fills the geometry of a run from a solver.
func MetadataFor(s *rd.Solver, gridStep int) RunMetadata {
	nx, ny := s.Shape()
	meta := RunMetadata{
		Model:     s.ModelName(),
		Dimension: int(s.Dimension()),
		Boundary:  s.Boundary().String(),
		Dt:        s.Dt(),
		Dh:        s.Dh(),
		NX:        nx,
		NY:        ny,
		Fields:    s.FieldCount(),
		GridStep:  gridStep,
	}
	if c, ok := s.Model().(rd.Configurable); ok {
		meta.Params = c.GetParams()
	}
	return meta
}

// Run is an open run directory. It is not safe for concurrent use.
type Run struct {
	dir   string
	meta  RunMetadata
	probe *os.File
	w     *csv.Writer
	err   error
}

// Create makes a new run directory named after the model and a short UUID
// and writes its metadata.
func (s *Store) Create(meta RunMetadata) (*Run, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Model, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	if meta.GridStep < 1 {
		meta.GridStep = 1
	}

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(filepath.Join(dir, snapshotDir), 0755); err != nil {
		return nil, err
	}
	r := &Run{dir: dir, meta: meta}
	if err := r.writeMetadata(); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, probeFile))
	if err != nil {
		return nil, err
	}
	r.probe, r.w = f, csv.NewWriter(f)

	header := []string{"time"}
	for i := 0; i < meta.Fields; i++ {
		header = append(header, fmt.Sprintf("f%d", i))
	}
	if err := r.w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Run) ID() string            { return r.meta.ID }
func (r *Run) Dir() string           { return r.dir }
func (r *Run) Metadata() RunMetadata { return r.meta }

func (r *Run) writeMetadata() error {
	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

// snapshotName uses the shortest exact form of t, so distinct times never
// share a file and the name parses back to the same float.
func snapshotName(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64) + snapshotExt
}

// WriteSnapshot writes field 0 of s as tab separated rows, one per y,
// sampling every GridStep points.
func (r *Run) WriteSnapshot(t float64, s *rd.Slice) error {
	f, err := os.Create(filepath.Join(r.dir, snapshotDir, snapshotName(t)))
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	step := r.meta.GridStep
	for y := 0; y < s.NY(); y += step {
		for x := 0; x < s.NX(); x += step {
			if x > 0 {
				bw.WriteByte('\t')
			}
			bw.WriteString(strconv.FormatFloat(s.At(0, x, y), 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return errors.Join(bw.Flush(), f.Close())
}

// AppendProbe adds one row to probe.csv.
func (r *Run) AppendProbe(t float64, values []float64) error {
	row := make([]string, 0, len(values)+1)
	row = append(row, strconv.FormatFloat(t, 'f', 6, 64))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return r.w.Write(row)
}

// Probe returns an observer that records every field at (x, y) once every
// `every` steps. Write failures are reported by Close.
func (r *Run) Probe(x, y, every int) rd.Observer {
	return &probe{run: r, x: x, y: y, every: max(every, 1)}
}

type probe struct {
	run   *Run
	x, y  int
	every int
	n     int
	buf   []float64
}

func (p *probe) OnStep(s *rd.Slice, t float64) {
	p.n++
	if p.n%p.every != 0 || p.run.err != nil {
		return
	}
	p.buf = s.Point(p.x, p.y, p.buf)
	p.run.err = p.run.AppendProbe(t, p.buf)
}

// Finish records the final step count, time and metric values.
func (r *Run) Finish(steps int, elapsed float64, metrics map[string]float64) error {
	r.meta.Steps, r.meta.Elapsed, r.meta.Metrics = steps, elapsed, metrics
	return r.writeMetadata()
}

func (r *Run) Close() error {
	r.w.Flush()
	err := errors.Join(r.err, r.w.Error(), r.probe.Close())
	if err != nil {
		return fmt.Errorf("close run %s: %w", r.meta.ID, err)
	}
	return nil
}

// List returns the metadata of every run, oldest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadProbe reads probe.csv back as times and per-row field values.
func (s *Store) LoadProbe(runID string) ([]float64, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, probeFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	values := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseFloats(record)
		if err != nil || len(row) == 0 {
			return nil, nil, fmt.Errorf("probe row %d: %w", i+1, err)
		}
		times = append(times, row[0])
		values = append(values, row[1:])
	}
	return times, values, nil
}

// Snapshots lists the snapshot times of a run in order.
func (s *Store) Snapshots(runID string) ([]float64, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, runID, snapshotDir))
	if err != nil {
		return nil, err
	}
	times := make([]float64, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), snapshotExt)
		if !ok {
			continue
		}
		t, err := strconv.ParseFloat(name, 64)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	sort.Float64s(times)
	return times, nil
}

// LoadSnapshot reads the snapshot at time t as rows indexed [y][x].
func (s *Store) LoadSnapshot(runID string, t float64) ([][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, snapshotDir, snapshotName(t)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]float64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		row, err := parseFloats(strings.Split(line, "\t"))
		if err != nil {
			return nil, fmt.Errorf("snapshot %s row %d: %w", snapshotName(t), len(rows), err)
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
