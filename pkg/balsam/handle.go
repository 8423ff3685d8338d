package balsam

import "strings"

// JobHandle identifies a submitted launcher job. The scheduler id is parsed
// from the submission tool's output on a best-effort basis; Raw always holds
// the full output for display.
type JobHandle struct {
	SchedulerID string
	Raw         string
}

func newJobHandle(stdout string) *JobHandle {
	return &JobHandle{
		SchedulerID: parseSchedulerID(stdout),
		Raw:         strings.TrimSpace(stdout),
	}
}

// parseSchedulerID picks the last all-digit token from the tool's output.
// Submission tools print the scheduler's job id as the final interesting
// token ("Submit OK: Job 123456"); anything else yields an empty id.
func parseSchedulerID(out string) string {
	id := ""
	for _, tok := range strings.Fields(out) {
		if isDigits(tok) {
			id = tok
		}
	}
	return id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
