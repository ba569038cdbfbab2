// Package recorder persists a write-only audit trail of analysis runs.
// Nothing in the analysis path ever reads it back; it exists for ad-hoc
// inspection of past runs.
package recorder

import "CanslimScout/internal/model"

// RunRecorder persists completed analysis runs.
type RunRecorder interface {
	RecordRun(report *model.RunReport) error
	Close() error
}
