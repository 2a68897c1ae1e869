package emit

import (
	"errors"
	"fmt"
)

// ErrUnknownRecord is returned by sinks for record types they cannot handle.
var ErrUnknownRecord = errors.New("unknown record type")

// Sink receives records in emission order.
type Sink interface {
	Write(r Record) error
}

// Emitter appends records to a sink and counts them. The first sink error
// is kept and returned by every later call; nothing more reaches the sink.
type Emitter struct {
	sink   Sink
	cursor int
	err    error
}

// New creates an emitter writing to sink.
func New(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// Emit appends r. Records are never reordered.
func (e *Emitter) Emit(r Record) error {
	if e.err != nil {
		return e.err
	}
	if err := e.sink.Write(r); err != nil {
		e.err = fmt.Errorf("emit %s at record %d: %w", r.Kind(), e.cursor, err)
		return e.err
	}
	e.cursor++
	return nil
}

// Cursor returns the number of records written so far.
func (e *Emitter) Cursor() int {
	return e.cursor
}

// Err returns the sticky sink error, if any.
func (e *Emitter) Err() error {
	return e.err
}

// Recorder is a sink that keeps records as data.
type Recorder struct {
	Records []Record
}

// Write appends r.
func (r *Recorder) Write(rec Record) error {
	r.Records = append(r.Records, rec)
	return nil
}

// Kinds returns the kind of every record, in order.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Records))
	for i, rec := range r.Records {
		kinds[i] = rec.Kind()
	}
	return kinds
}

// Count returns how many records of the given kind were written.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, rec := range r.Records {
		if rec.Kind() == kind {
			n++
		}
	}
	return n
}

// CountByKind tallies records per kind.
func (r *Recorder) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, rec := range r.Records {
		counts[rec.Kind()]++
	}
	return counts
}

// Filter returns every recorded value of type T, in order.
func Filter[T Record](r *Recorder) []T {
	var out []T
	for _, rec := range r.Records {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Tee writes every record to each sink in turn, stopping at the first error.
type Tee []Sink

// Write forwards rec.
func (t Tee) Write(rec Record) error {
	for _, s := range t {
		if err := s.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
