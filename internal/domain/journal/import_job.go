package journal

import "time"

type ImportStatus string

const (
	ImportStatusQueued    ImportStatus = "queued"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

func (s ImportStatus) Terminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

type ImportStats struct {
	TotalEntries      int64
	ProcessedEntries  int64
	ImportedEntries   int64
	SkippedDuplicates int64
	CreatedGroups     int64
	CreatedOptions    int64
	FailedEntries     int64
}

// Add returns the sum of s and delta. Negative delta fields are ignored so
// counters never go down.
func (s ImportStats) Add(delta ImportStats) ImportStats {
	add := func(current, d int64) int64 {
		if d <= 0 {
			return current
		}
		return current + d
	}
	return ImportStats{
		TotalEntries:      add(s.TotalEntries, delta.TotalEntries),
		ProcessedEntries:  add(s.ProcessedEntries, delta.ProcessedEntries),
		ImportedEntries:   add(s.ImportedEntries, delta.ImportedEntries),
		SkippedDuplicates: add(s.SkippedDuplicates, delta.SkippedDuplicates),
		CreatedGroups:     add(s.CreatedGroups, delta.CreatedGroups),
		CreatedOptions:    add(s.CreatedOptions, delta.CreatedOptions),
		FailedEntries:     add(s.FailedEntries, delta.FailedEntries),
	}
}

// ImportFailure is one recorded error. Index is nil for a job-level failure.
type ImportFailure struct {
	Index  *int
	Reason string
}

type ImportJob struct {
	ID         string
	OwnerID    int64
	Filename   string
	Status     ImportStatus
	Progress   int
	DryRun     bool
	Stats      ImportStats
	Errors     []ImportFailure
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// Clone returns a deep copy that shares no mutable state with j.
func (j ImportJob) Clone() ImportJob {
	out := j
	if j.Errors != nil {
		out.Errors = make([]ImportFailure, len(j.Errors))
		for i, failure := range j.Errors {
			out.Errors[i] = failure
			if failure.Index != nil {
				idx := *failure.Index
				out.Errors[i].Index = &idx
			}
		}
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		out.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		out.FinishedAt = &t
	}
	return out
}

// ClaimedImportJob is handed to a worker together with the uploaded bytes.
type ClaimedImportJob struct {
	ImportJob
	Payload []byte
}

type NewImportJob struct {
	OwnerID  int64
	Filename string
	DryRun   bool
	Payload  []byte
}
