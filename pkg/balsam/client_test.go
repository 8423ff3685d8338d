package balsam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hpckit/balsamctl/pkg/bsdk/berr"
	"github.com/hpckit/balsamctl/pkg/taskrun"
)

// fakeRunner records invocations and plays back canned results.
type fakeRunner struct {
	calls [][]string
	res   execResult
	err   error
}

func (f *fakeRunner) run(ctx context.Context, env []string, name string, args ...string) (execResult, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.res, f.err
}

func TestClient_SubmitLaunch_SingleInvocation(t *testing.T) {
	fake := &fakeRunner{res: execResult{Stdout: "Submit OK: Job 123456\n", ExitCode: 0}}
	c := NewClient()
	c.run = fake.run

	handle, err := c.SubmitLaunch(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("SubmitLaunch failed: %v", err)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected exactly one invocation, got %d", len(fake.calls))
	}
	want := append([]string{DefaultBinary}, validRequest().Args()...)
	if !reflect.DeepEqual(fake.calls[0], want) {
		t.Errorf("invocation = %v, want %v", fake.calls[0], want)
	}

	if handle.SchedulerID != "123456" {
		t.Errorf("SchedulerID = %q, want 123456", handle.SchedulerID)
	}
}

func TestClient_SubmitLaunch_ValidatesBeforeInvoking(t *testing.T) {
	fake := &fakeRunner{}
	c := NewClient()
	c.run = fake.run

	req := validRequest()
	req.NodeCount = 0
	if _, err := c.SubmitLaunch(context.Background(), req); err == nil {
		t.Fatal("expected validation error")
	}

	req = validRequest()
	req.WallTimeMinutes = 0
	if _, err := c.SubmitLaunch(context.Background(), req); err == nil {
		t.Fatal("expected validation error")
	}

	if len(fake.calls) != 0 {
		t.Errorf("invalid requests must not reach the external tool, got %d calls", len(fake.calls))
	}
}

func TestClient_SubmitLaunch_ExternalRejection(t *testing.T) {
	fake := &fakeRunner{
		res: execResult{Stderr: "unknown queue: day-long-cpu", ExitCode: 2},
		err: errors.New("exit status 2"),
	}
	c := NewClient()
	c.run = fake.run

	_, err := c.SubmitLaunch(context.Background(), validRequest())
	if !berr.IsCode(err, berr.CodeSubmitFailed) {
		t.Fatalf("expected %s, got %v", berr.CodeSubmitFailed, err)
	}
	if code := berr.ExitCodeOf(err); code != 2 {
		t.Errorf("ExitCodeOf = %d, want 2", code)
	}
	if !strings.Contains(err.Error(), "unknown queue") {
		t.Errorf("tool stderr should be preserved, got %q", err.Error())
	}
}

func TestClient_Initialize_Idempotent(t *testing.T) {
	fake := &fakeRunner{res: execResult{ExitCode: 0}}
	c := NewClient()
	c.run = fake.run

	for i := 0; i < 2; i++ {
		if err := c.Initialize(context.Background(), "/tmp/wf"); err != nil {
			t.Fatalf("Initialize call %d failed: %v", i+1, err)
		}
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected two invocations, got %d", len(fake.calls))
	}
	if !reflect.DeepEqual(fake.calls[0], fake.calls[1]) {
		t.Errorf("repeated Initialize should invoke identically: %v vs %v", fake.calls[0], fake.calls[1])
	}
}

func TestClient_Initialize_EmptyPath(t *testing.T) {
	fake := &fakeRunner{}
	c := NewClient()
	c.run = fake.run

	err := c.Initialize(context.Background(), "")
	if !berr.IsCode(err, berr.CodeInitFailed) {
		t.Fatalf("expected %s, got %v", berr.CodeInitFailed, err)
	}
	if len(fake.calls) != 0 {
		t.Error("empty path must not reach the external tool")
	}
}

// writeStubTool drops a fake workflow manager binary into dir. It appends
// its subcommand to callLog and echoes a submit acknowledgement.
func writeStubTool(t *testing.T, dir, callLog string) string {
	t.Helper()
	script := fmt.Sprintf(`#!/bin/sh
echo "$1 db=$BALSAM_DB_PATH" >> %s
if [ "$1" = "submit-launch" ]; then
  echo "Submit OK: Job 777"
fi
exit 0
`, callLog)
	path := filepath.Join(dir, "balsam")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing stub tool: %v", err)
	}
	return path
}

func TestClient_EndToEndPipeline(t *testing.T) {
	dir := t.TempDir()
	callLog := filepath.Join(dir, "calls.log")
	bin := writeStubTool(t, dir, callLog)

	c := NewClient(WithBinary(bin))
	ctx := context.Background()
	wfPath := filepath.Join(dir, "wf")

	if err := c.Initialize(ctx, wfPath); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	r := taskrun.NewRunner(taskrun.WithBaseDir(dir))
	if _, err := r.Run(ctx, taskrun.Task{Command: "true"}); err != nil {
		t.Fatalf("local task failed: %v", err)
	}

	handle, err := c.SubmitLaunch(ctx, SubmissionRequest{
		WorkflowPath:        wfPath,
		Queue:               "day-long-cpu",
		Account:             "X",
		WallTimeMinutes:     1200,
		NodeCount:           1,
		JobMode:             JobModeSerial,
		ExtraSchedulerFlags: []string{"-n", "48"},
	})
	if err != nil {
		t.Fatalf("SubmitLaunch failed: %v", err)
	}
	if handle.SchedulerID != "777" {
		t.Errorf("SchedulerID = %q, want 777", handle.SchedulerID)
	}

	data, err := os.ReadFile(callLog)
	if err != nil {
		t.Fatalf("reading call log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 invocations, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "init ") || !strings.HasPrefix(lines[1], "submit-launch ") {
		t.Errorf("wrong invocation order: %q", lines)
	}
	for _, line := range lines {
		if !strings.Contains(line, "db="+wfPath) {
			t.Errorf("store path should be in the child environment: %q", line)
		}
	}
}
