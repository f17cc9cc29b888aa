package domain

import "time"

// PerformanceMark is a single client-side timing sample.
type PerformanceMark struct {
	Name       string
	Value      float64
	Timestamp  time.Time
	SessionID  string
	Attributes map[string]string
}
