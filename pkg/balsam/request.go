package balsam

import (
	"fmt"
	"strconv"

	"github.com/hpckit/balsamctl/pkg/bsdk/berr"
)

// JobMode is the execution topology of a launcher job.
type JobMode string

const (
	// JobModeSerial runs one task at a time per worker.
	JobModeSerial JobMode = "serial"
	// JobModeMPI runs multi-process coordinated tasks.
	JobModeMPI JobMode = "mpi"
)

// ParseJobMode converts a user-supplied string into a JobMode.
func ParseJobMode(s string) (JobMode, error) {
	switch JobMode(s) {
	case JobModeSerial:
		return JobModeSerial, nil
	case JobModeMPI:
		return JobModeMPI, nil
	}
	return "", fmt.Errorf("unknown job mode %q (want %q or %q)", s, JobModeSerial, JobModeMPI)
}

// SubmissionRequest describes one launcher job to hand to the batch scheduler.
type SubmissionRequest struct {
	// WorkflowPath is the workflow store the launcher pulls work from.
	WorkflowPath string
	// Queue is the scheduler queue/partition name.
	Queue string
	// Account is the allocation the job is charged to.
	Account string
	// WallTimeMinutes is the requested wall-clock limit.
	WallTimeMinutes int
	// NodeCount is the number of compute nodes to allocate.
	NodeCount int
	// JobMode selects the launcher topology.
	JobMode JobMode
	// ExtraSchedulerFlags are passed through to the submission tool unmodified,
	// in order, after the serialized fields.
	ExtraSchedulerFlags []string
}

// Validate rejects malformed requests before any external tool is invoked.
func (r SubmissionRequest) Validate() error {
	var err error
	switch {
	case r.Queue == "":
		err = fmt.Errorf("queue must not be empty")
	case r.Account == "":
		err = fmt.Errorf("account must not be empty")
	case r.WallTimeMinutes <= 0:
		err = fmt.Errorf("wall time must be positive, got %d", r.WallTimeMinutes)
	case r.NodeCount <= 0:
		err = fmt.Errorf("node count must be positive, got %d", r.NodeCount)
	}
	if err == nil {
		if _, merr := ParseJobMode(string(r.JobMode)); merr != nil {
			err = merr
		}
	}
	return berr.New(berr.CodeInvalidRequest, err)
}

// Args serializes the request into the submission tool's argument list. The
// order is fixed so a request always maps to the same invocation.
func (r SubmissionRequest) Args() []string {
	args := []string{
		"submit-launch",
		"-A", r.Account,
		"-q", r.Queue,
		"-t", strconv.Itoa(r.WallTimeMinutes),
		"-n", strconv.Itoa(r.NodeCount),
		"--job-mode", string(r.JobMode),
	}
	return append(args, r.ExtraSchedulerFlags...)
}
