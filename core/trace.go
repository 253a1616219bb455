package kimi

import "time"

// Trace records one evaluation at a front-end boundary: the source that was
// run and its result or classified failure.
type Trace struct {
	Source    string
	Result    Value     // zero Value on failure
	Error     string    // non-empty on failure
	Kind      ErrorKind // meaningful only on failure
	Timestamp time.Time
}

// NewTrace builds the trace of running src with outcome v, err.
func NewTrace(src string, v Value, err error, at time.Time) *Trace {
	t := &Trace{Source: src, Timestamp: at}
	if err != nil {
		t.Error = err.Error()
		t.Kind = KindOf(err)
		return t
	}
	t.Result = v
	return t
}

func (t *Trace) Failed() bool { return t.Error != "" }

// Outcome is the text shown for the trace: the result, or the error message.
func (t *Trace) Outcome() string {
	if t.Failed() {
		return t.Error
	}
	return t.Result.String()
}
