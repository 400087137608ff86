package event

import "strings"

// Status is the outcome of a step, a table row or a single cell.
type Status int

const (
	Unknown Status = iota
	Passed
	Failed
	Skipped
	Undefined
	Pending
)

var statusNames = map[Status]string{
	Unknown:   "unknown",
	Passed:    "passed",
	Failed:    "failed",
	Skipped:   "skipped",
	Undefined: "undefined",
	Pending:   "pending",
}

// Statuses lists every status in report order.
var Statuses = []Status{Passed, Failed, Skipped, Undefined, Pending, Unknown}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// ParseStatus maps a lower-case status name to a Status. Anything it does
// not recognise is Unknown.
func ParseStatus(name string) Status {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range statusNames {
		if n == name {
			return s
		}
	}
	return Unknown
}

// MaybeStatus is a status that may be absent, e.g. a table cell whose
// status was not reported by the engine.
type MaybeStatus struct {
	Status Status
	Valid  bool
}

// Known wraps s as a present status.
func Known(s Status) MaybeStatus {
	return MaybeStatus{Status: s, Valid: true}
}

// Or returns the status if present, fallback otherwise.
func (m MaybeStatus) Or(fallback Status) Status {
	if m.Valid {
		return m.Status
	}
	return fallback
}

func (m MaybeStatus) String() string {
	if !m.Valid {
		return "none"
	}
	return m.Status.String()
}
