package model

import "time"

// Result is the outcome of one orchestrated workflow invocation. Steps is the
// ordered, human-readable step log and is populated even when the workflow
// fails partway through.
type Result struct {
	OK        bool     `json:"ok"`
	Message   string   `json:"message"`
	Steps     []string `json:"steps,omitempty"`
	Failures  []string `json:"failures,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// NowISO formats the current UTC time the way the marker and stamp files
// expect it.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}
