package api

import "time"

type PerformanceMark struct {
	Name       string            `json:"name"`
	Value      float64           `json:"value"`
	Timestamp  *time.Time        `json:"timestamp,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type PerformanceMarksRequest struct {
	SessionID string            `json:"sessionId,omitempty"`
	Event     string            `json:"event,omitempty"`
	Marks     []PerformanceMark `json:"marks"`
}

type PerformanceMarksResponse struct {
	Accepted  int    `json:"accepted"`
	SessionID string `json:"sessionId"`
}
