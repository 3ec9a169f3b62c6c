package tabmerge

import (
	"encoding/json"
)

// Report summarizes one batch run.
type Report struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	ProcessedFiles []string `json:"processed_files"`
	Errors         []string `json:"errors"`
	OutputPath     string   `json:"output_path,omitempty"`
	RunID          string   `json:"run_id"`
}

func newReport(runID string) *Report {
	return &Report{
		ProcessedFiles: []string{},
		Errors:         []string{},
		RunID:          runID,
	}
}

// JSON returns the report as indented JSON. Empty lists are encoded as []
// rather than null.
func (r *Report) JSON() ([]byte, error) {
	out := *r
	if out.ProcessedFiles == nil {
		out.ProcessedFiles = []string{}
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	return json.MarshalIndent(out, "", "  ")
}
