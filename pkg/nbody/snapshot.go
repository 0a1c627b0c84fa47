package nbody

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/medasdigital/heliotrace/pkg/constants"
	"github.com/medasdigital/heliotrace/pkg/kepler"
	"github.com/medasdigital/heliotrace/pkg/trajectory"
	"github.com/medasdigital/heliotrace/pkg/vector3"
)

// Body is one row of diagnostic snapshot output: the integrated body's
// state at a point in time, plus the perturbing planets' positions at the
// same instant, for callers that want to inspect the integration as it
// runs rather than only its final samples.
type Body struct {
	ID       string          `json:"id"`
	Position vector3.Vector3 `json:"position"`
	Velocity vector3.Vector3 `json:"velocity"`
}

// SnapshotSink receives periodic integration snapshots. Used by the CLI's
// diagnostic output mode; never called from the sample-producing hot
// path.
type SnapshotSink interface {
	OnStart(totalSteps int) error
	OnSnapshot(tDays float64, bodies []Body) error
	OnEnd(finalTDays float64) error
	Close() error
}

// JSONLSnapshotWriter writes one JSON object per line, one per snapshot.
type JSONLSnapshotWriter struct {
	f  *os.File
	bw *bufio.Writer
}

type jsonlSnapshot struct {
	TimeDays float64 `json:"time_days"`
	Bodies   []Body  `json:"bodies"`
}

// NewJSONLSnapshotWriter creates (or truncates) path for JSONL snapshot
// output.
func NewJSONLSnapshotWriter(path string) (*JSONLSnapshotWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONLSnapshotWriter{f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *JSONLSnapshotWriter) OnStart(totalSteps int) error { return nil }

func (w *JSONLSnapshotWriter) OnSnapshot(tDays float64, bodies []Body) error {
	rec := jsonlSnapshot{TimeDays: tDays, Bodies: bodies}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLSnapshotWriter) OnEnd(finalTDays float64) error { return w.bw.Flush() }

func (w *JSONLSnapshotWriter) Close() error {
	if w.bw != nil {
		_ = w.bw.Flush()
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

// PropagateElementsWithSnapshots behaves like PropagateElements but also
// drives sink with the integrated body's state every snapshotEvery
// accepted steps, plus the perturbing planets' positions at that instant.
// Intended for the CLI's optional diagnostic output, not the serving
// path: it re-integrates independently of any call to PropagateElements.
func (p *Propagator) PropagateElementsWithSnapshots(
	elements trajectory.Elements, startTime, days float64, designation string,
	sink SnapshotSink, snapshotEvery int,
) error {
	initial, err := kepler.KeplerianToCartesian(elements, startTime, constants.GMSun)
	if err != nil {
		return err
	}

	y0 := state{R: initial.Position, V: initial.Velocity}
	segments, _, integErr := p.system.integrate(y0, startTime, startTime+days)

	if err := sink.OnStart(len(segments)); err != nil {
		return err
	}
	for i, seg := range segments {
		if i%snapshotEvery != 0 {
			continue
		}
		bodies := []Body{{ID: designation, Position: seg.y1.R, Velocity: seg.y1.V}}
		for _, planet := range p.system.Planets {
			pos, perr := p.system.Provider.Position(planet, seg.t1)
			if perr != nil {
				continue
			}
			bodies = append(bodies, Body{ID: string(planet), Position: pos})
		}
		if err := sink.OnSnapshot(seg.t1-startTime, bodies); err != nil {
			return err
		}
	}

	finalT := startTime
	if len(segments) > 0 {
		finalT = segments[len(segments)-1].t1
	}
	if err := sink.OnEnd(finalT - startTime); err != nil {
		return err
	}
	return integErr
}
