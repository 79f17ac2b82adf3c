package usage

import (
	"github.com/huandu/go-clone"
	"github.com/rs/zerolog/log"
)

// Record is the telemetry of one completed request: the raw usage report,
// the model that served it, and the active node ids whose nodes built the
// request payload.
type Record struct {
	Model       string `json:"model"`
	ActiveNodes []int  `json:"active_nodes"`
	Usage       Report `json:"usage"`
}

// Tracker keeps a per-call, append-only log of usage records in request
// order.
type Tracker struct {
	records []Record
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Log appends the usage report of one completed request.
func (t *Tracker) Log(report Report, model string, activeNodes []int) {
	t.records = append(t.records, Record{
		Model:       model,
		ActiveNodes: append([]int(nil), activeNodes...),
		Usage:       clone.Clone(report).(Report),
	})

	log.Trace().Str("model", model).Ints("active_nodes", activeNodes).Msg("logged usage record")
}

// Records returns a deep copy of all records, in request order.
func (t *Tracker) Records() []Record {
	if t.records == nil {
		return nil
	}
	return clone.Clone(t.records).([]Record)
}

// Len returns the number of logged records.
func (t *Tracker) Len() int {
	return len(t.records)
}

// Totals merges every record's usage report into one cumulative report.
// Derived view only; the per-call records stay the source of truth.
func (t *Tracker) Totals() Report {
	totals := Report{}
	for i := range t.records {
		Merge(totals, t.records[i].Usage)
	}
	return totals
}

// Clear drops all records.
func (t *Tracker) Clear() {
	t.records = nil
}

// Clone returns a fully independent duplicate of the tracker.
func (t *Tracker) Clone() *Tracker {
	ret := &Tracker{}
	if t.records != nil {
		ret.records = clone.Clone(t.records).([]Record)
	}
	return ret
}

// State is the serializable form of a Tracker.
type State struct {
	Records []Record `json:"records"`
}

// State returns a deep copy of the tracker's serializable state.
func (t *Tracker) State() State {
	ret := State{}
	if t.records != nil {
		ret.Records = clone.Clone(t.records).([]Record)
	}
	return ret
}

// NewTrackerFromState reconstructs a Tracker with all records preserved.
func NewTrackerFromState(state State) *Tracker {
	ret := &Tracker{}
	if state.Records != nil {
		ret.records = clone.Clone(state.Records).([]Record)
	}
	return ret
}
