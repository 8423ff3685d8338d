package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Job mirrors one row of the workflow manager's job table. We only read it;
// the schema is owned by the external tool.
type Job struct {
	bun.BaseModel `bun:"table:balsam_core_balsamjob,alias:j"`

	JobID       uuid.UUID `bun:"job_id,pk,type:uuid"`
	Name        string    `bun:"name"`
	Workflow    string    `bun:"workflow"`
	Application string    `bun:"application"`
	State       string    `bun:"state"`
	LastUpdate  time.Time `bun:"last_update,nullzero"`
}

// Terminal job states as the workflow manager spells them.
const (
	StateFinished = "JOB_FINISHED"
	StateFailed   = "FAILED"
)

// Finished reports whether the job reached its terminal success state.
func (j Job) Finished() bool {
	return j.State == StateFinished
}
