package balsam

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hpckit/balsamctl/pkg/bsdk/berr"
	"github.com/hpckit/balsamctl/pkg/wflog"
)

// DefaultBinary is the workflow manager CLI we shell out to.
const DefaultBinary = "balsam"

// dbPathEnv is how the workflow manager finds its active store. Setting it on
// the child avoids the "source activate" shell dance.
const dbPathEnv = "BALSAM_DB_PATH"

// execResult captures what an external invocation produced.
type execResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner is the seam between the client and os/exec, so tests can
// observe exact invocations without a real binary on PATH.
type commandRunner func(ctx context.Context, env []string, name string, args ...string) (execResult, error)

// Client drives the external workflow manager CLI. Every call is synchronous
// and blocks until the child process exits; there are no retries.
type Client struct {
	bin string
	env map[string]string
	log *wflog.Logger
	run commandRunner
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the CLI binary name or path.
func WithBinary(bin string) Option {
	return func(c *Client) { c.bin = bin }
}

// WithEnv sets extra environment variables for every invocation.
func WithEnv(env map[string]string) Option {
	return func(c *Client) { c.env = env }
}

// WithLogger sets the logger used for invocation tracing.
func WithLogger(log *wflog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		bin: DefaultBinary,
		log: wflog.NewQuiet(),
		run: runCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize creates (or re-opens) a workflow store at path by invoking
// `balsam init <path>`. The external tool treats an existing compatible store
// as a no-op, so calling this twice is safe. Failures surface the tool's exit
// status and stderr.
func (c *Client) Initialize(ctx context.Context, path string) error {
	if path == "" {
		return berr.New(berr.CodeInitFailed, fmt.Errorf("workflow path must not be empty"))
	}

	c.log.Debug("initializing workflow store", "path", path)
	res, err := c.run(ctx, c.childEnv(path), c.bin, "init", path)
	if err != nil {
		return berr.NewExit(berr.CodeInitFailed, res.ExitCode,
			fmt.Errorf("%s init %s: %s", c.bin, path, toolMessage(res, err)))
	}

	c.log.Debug("workflow store ready", "path", path)
	return nil
}

// SubmitLaunch validates the request and hands it to the batch scheduler
// through `balsam submit-launch`. Exactly one external invocation is made,
// with the request fields serialized in a fixed order.
func (c *Client) SubmitLaunch(ctx context.Context, req SubmissionRequest) (*JobHandle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	args := req.Args()
	c.log.Debug("submitting launcher job", "queue", req.Queue, "nodes", req.NodeCount, "mode", string(req.JobMode))
	res, err := c.run(ctx, c.childEnv(req.WorkflowPath), c.bin, args...)
	if err != nil {
		return nil, berr.NewExit(berr.CodeSubmitFailed, res.ExitCode,
			fmt.Errorf("%s %s: %s", c.bin, strings.Join(args, " "), toolMessage(res, err)))
	}

	return newJobHandle(res.Stdout), nil
}

// childEnv builds the environment for one invocation: the parent environment,
// the client's configured extras, and the active store path.
func (c *Client) childEnv(workflowPath string) []string {
	env := os.Environ()
	for k, v := range c.env {
		env = append(env, k+"="+v)
	}
	if workflowPath != "" {
		env = append(env, dbPathEnv+"="+workflowPath)
	}
	return env
}

// toolMessage prefers the tool's own stderr over Go's exec error text.
func toolMessage(res execResult, err error) string {
	if msg := strings.TrimSpace(res.Stderr); msg != "" {
		return msg
	}
	return err.Error()
}

func runCommand(ctx context.Context, env []string, name string, args ...string) (execResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = env

	err := cmd.Run()
	res := execResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	return res, err
}
