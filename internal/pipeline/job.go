package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/nao1215/vmassess/internal/model"
)

// Job carries one input file through a pipeline.
type Job struct {
	// Input is the path of the assessment data file.
	Input string

	// Label names the job in logs and history. It is the input's base name.
	Label string

	// Data is the loaded assessment data. It is nil until a load step runs.
	Data model.AssessmentData

	// Outputs lists the report files written for this job, in format order.
	Outputs []string

	// HistoryID is the history row ID, or zero when nothing was recorded.
	HistoryID int64

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string

	// Err is the last step error, if any.
	Err error
}

// NewJob returns a job for the input file.
func NewJob(input string) *Job {
	return &Job{
		Input:          input,
		Label:          filepath.Base(input),
		Outputs:        make([]string, 0),
		PerformedSteps: make([]string, 0),
	}
}

// BaseName returns the input's base name without its extension. Report
// files are named after it.
func (j *Job) BaseName() string {
	return strings.TrimSuffix(j.Label, filepath.Ext(j.Label))
}
