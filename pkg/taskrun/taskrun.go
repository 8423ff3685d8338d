package taskrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hpckit/balsamctl/pkg/bsdk/berr"
)

// Status represents the final state of a local task run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is a single local command executed synchronously before submission.
type Task struct {
	Command    string            `json:"command"`
	Args       []string          `json:"args,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
	WorkingDir string            `json:"working_dir,omitempty"`
}

// Result records one completed run. It is persisted as run.json inside the
// run directory alongside the captured logs.
type Result struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Command    string    `json:"command"`
	Args       []string  `json:"args,omitempty"`
	ExitCode   int       `json:"exit_code"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	RunDir     string    `json:"run_dir"`
	LogsPath   string    `json:"logs_path"`
	StderrPath string    `json:"stderr_path"`
}

// Runner executes local tasks one at a time, blocking the caller until the
// child process exits. Each run gets its own directory under
// <base>/.balsamctl/runs with stdout/stderr logs and a run.json record.
type Runner struct {
	baseDir string
	stream  io.Writer // optional mirror of child output, usually os.Stdout
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBaseDir sets the directory the runs tree is created under.
func WithBaseDir(baseDir string) RunnerOption {
	return func(r *Runner) { r.baseDir = baseDir }
}

// WithStream mirrors the task's output to w in addition to the log files.
func WithStream(w io.Writer) RunnerOption {
	return func(r *Runner) { r.stream = w }
}

func NewRunner(opts ...RunnerOption) *Runner {
	cwd, _ := os.Getwd()
	r := &Runner{baseDir: cwd}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) runsDir() string {
	return filepath.Join(r.baseDir, ".balsamctl", "runs")
}

// Run executes the task and waits for it. A non-zero exit yields a task
// error carrying the child's actual exit code; the Result is returned in
// both cases so callers can point the operator at the logs.
func (r *Runner) Run(ctx context.Context, task Task) (*Result, error) {
	if task.Command == "" {
		return nil, berr.New(berr.CodeTaskFailed, fmt.Errorf("task command must not be empty"))
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, berr.New(berr.CodeTaskFailed, fmt.Errorf("generating run id: %w", err))
	}

	runDir := filepath.Join(r.runsDir(), runID.String())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, berr.New(berr.CodeTaskFailed, fmt.Errorf("creating run directory: %w", err))
	}

	res := &Result{
		ID:         runID.String(),
		Command:    task.Command,
		Args:       task.Args,
		StartedAt:  time.Now(),
		RunDir:     runDir,
		LogsPath:   filepath.Join(runDir, "stdout.log"),
		StderrPath: filepath.Join(runDir, "stderr.log"),
	}

	stdout, err := os.Create(res.LogsPath)
	if err != nil {
		return nil, berr.New(berr.CodeTaskFailed, fmt.Errorf("creating log file: %w", err))
	}
	defer stdout.Close()
	stderr, err := os.Create(res.StderrPath)
	if err != nil {
		return nil, berr.New(berr.CodeTaskFailed, fmt.Errorf("creating log file: %w", err))
	}
	defer stderr.Close()

	cmd := exec.CommandContext(ctx, task.Command, task.Args...)
	cmd.Dir = task.WorkingDir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if r.stream != nil {
		cmd.Stdout = io.MultiWriter(stdout, r.stream)
		cmd.Stderr = io.MultiWriter(stderr, r.stream)
	}
	cmd.Env = os.Environ()
	for k, v := range task.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	runErr := cmd.Run()
	res.FinishedAt = time.Now()
	res.ExitCode = -1
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runErr != nil {
		res.Status = StatusFailed
		r.save(res)
		return res, berr.NewExit(berr.CodeTaskFailed, res.ExitCode,
			fmt.Errorf("task %s exited with code %d (logs: %s)", task.Command, res.ExitCode, res.StderrPath))
	}

	res.Status = StatusSucceeded
	r.save(res)
	return res, nil
}

func (r *Runner) save(res *Result) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(filepath.Join(res.RunDir, "run.json"), data, 0o644)
}

// Load reads the persisted record of an earlier run.
func (r *Runner) Load(runID string) (*Result, error) {
	data, err := os.ReadFile(filepath.Join(r.runsDir(), runID, "run.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("reading run state: %w", err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing run state: %w", err)
	}
	return &res, nil
}
