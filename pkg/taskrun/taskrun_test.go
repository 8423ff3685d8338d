package taskrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpckit/balsamctl/pkg/bsdk/berr"
)

func TestRunner_Run(t *testing.T) {
	r := NewRunner(WithBaseDir(t.TempDir()))
	ctx := context.Background()

	res, err := r.Run(ctx, Task{Command: "echo", Args: []string{"hello", "world"}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Status != StatusSucceeded {
		t.Errorf("expected status %s, got %s", StatusSucceeded, res.Status)
	}
	if res.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", res.ExitCode)
	}

	data, err := os.ReadFile(res.LogsPath)
	if err != nil {
		t.Fatalf("reading stdout log: %v", err)
	}
	if string(data) != "hello world\n" {
		t.Errorf("stdout log = %q", string(data))
	}

	if _, err := os.Stat(filepath.Join(res.RunDir, "run.json")); os.IsNotExist(err) {
		t.Error("run.json should exist")
	}
}

func TestRunner_Run_ExitCodePreserved(t *testing.T) {
	r := NewRunner(WithBaseDir(t.TempDir()))
	ctx := context.Background()

	res, err := r.Run(ctx, Task{Command: "sh", Args: []string{"-c", "exit 3"}})
	if err == nil {
		t.Fatal("expected an error for a failing task")
	}

	if !berr.IsCode(err, berr.CodeTaskFailed) {
		t.Errorf("expected code %s, got %v", berr.CodeTaskFailed, err)
	}
	if code := berr.ExitCodeOf(err); code != 3 {
		t.Errorf("ExitCodeOf = %d, want 3", code)
	}
	if res == nil || res.ExitCode != 3 {
		t.Errorf("result exit code should be 3, got %+v", res)
	}
	if res.Status != StatusFailed {
		t.Errorf("expected status %s, got %s", StatusFailed, res.Status)
	}
}

func TestRunner_Run_EnvAndWorkingDir(t *testing.T) {
	base := t.TempDir()
	work := t.TempDir()
	r := NewRunner(WithBaseDir(base))

	res, err := r.Run(context.Background(), Task{
		Command:    "sh",
		Args:       []string{"-c", "echo $GREETING; pwd"},
		Env:        map[string]string{"GREETING": "hi"},
		WorkingDir: work,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, _ := os.ReadFile(res.LogsPath)
	out := string(data)
	if out != "hi\n"+work+"\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRunner_Load(t *testing.T) {
	base := t.TempDir()
	r := NewRunner(WithBaseDir(base))

	res, err := r.Run(context.Background(), Task{Command: "true"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	loaded, err := r.Load(res.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != res.ID || loaded.Status != StatusSucceeded {
		t.Errorf("loaded record does not match: %+v", loaded)
	}

	if _, err := r.Load("nope"); err == nil {
		t.Error("expected error for unknown run id")
	}
}

func TestRunner_Run_EmptyCommand(t *testing.T) {
	r := NewRunner(WithBaseDir(t.TempDir()))
	if _, err := r.Run(context.Background(), Task{}); !berr.IsCode(err, berr.CodeTaskFailed) {
		t.Errorf("expected %s, got %v", berr.CodeTaskFailed, err)
	}
}
