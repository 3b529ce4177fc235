package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/gitinfo/internal/output"
)

func TestShow_Human(t *testing.T) {
	stdout, _, err := executeChild(t, newShowCmdInternal(usableRepo()))
	if err != nil {
		t.Fatalf("show error = %v", err)
	}

	for _, want := range []string{"Repository", "Branch: main", "Hash: 0123abcd", "Tags: v1.1, v1.0"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q:\n%s", want, stdout)
		}
	}
}

func TestShow_JSON(t *testing.T) {
	stdout, _, err := executeChild(t, newShowCmdInternal(usableRepo()), "--json")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}

	var got struct {
		Usable   bool `json:"usable"`
		Metadata struct {
			Branch string   `json:"branch"`
			Hash   string   `json:"hash"`
			Tags   []string `json:"tags"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if !got.Usable || got.Metadata.Branch != "main" || got.Metadata.Hash != "0123abcd" || len(got.Metadata.Tags) != 2 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestShow_NoCommitsWarns(t *testing.T) {
	stdout, stderr, err := executeChild(t, newShowCmdInternal(&fakeRepo{usable: true}))
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(stderr, "no branch, hash or tags") {
		t.Errorf("stderr should warn about empty metadata: %q", stderr)
	}
	if strings.Contains(stderr, "not a git repository") {
		t.Errorf("a usable repository should not be reported as missing: %q", stderr)
	}
	if !strings.Contains(stdout, "Hash: (none)") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestShow_Unusable(t *testing.T) {
	stdout, stderr, err := executeChild(t, newShowCmdInternal(&fakeRepo{}))
	if err != nil {
		t.Fatalf("an unusable repository is not an error: %v", err)
	}
	if !strings.Contains(stderr, "not a git repository") {
		t.Errorf("stderr should warn: %q", stderr)
	}
	if !strings.Contains(stdout, "Branch: (none)") || !strings.Contains(stdout, "Tags: (none)") {
		t.Errorf("stdout should show empty values:\n%s", stdout)
	}
}

func TestShow_UnusableJSONHasEmptyTags(t *testing.T) {
	stdout, _, err := executeChild(t, newShowCmdInternal(&fakeRepo{}), "--json")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(stdout, `"tags": []`) {
		t.Errorf("tags should render as an empty array:\n%s", stdout)
	}
}

func TestShow_StartFailure(t *testing.T) {
	repo := &fakeRepo{usableErr: output.NewSystemError("git not found in PATH")}
	_, stderr, err := executeChild(t, newShowCmdInternal(repo))
	if err == nil {
		t.Fatal("expected error")
	}
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", code, output.ExitSystemError)
	}
	if !strings.Contains(stderr, "git not found") {
		t.Errorf("stderr = %q", stderr)
	}

	plain := &fakeRepo{usableErr: errors.New("boom")}
	_, _, err = executeChild(t, newShowCmdInternal(plain))
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Errorf("plain error exit code = %d, want %d", code, output.ExitSystemError)
	}
}

func TestShow_RerunUsesCurrentFlags(t *testing.T) {
	missing := t.TempDir()
	cmd := newShowCmd()

	_, stderr, err := executeChild(t, cmd, "--git", filepath.Join(missing, "first-git"))
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Fatalf("first run exit code = %d, want %d", code, output.ExitSystemError)
	}
	if !strings.Contains(stderr, "first-git") {
		t.Fatalf("first run stderr = %q", stderr)
	}

	_, stderr, err = executeChild(t, cmd, "--git", filepath.Join(missing, "second-git"))
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Fatalf("second run exit code = %d, want %d", code, output.ExitSystemError)
	}
	if !strings.Contains(stderr, "second-git") || strings.Contains(stderr, "first-git") {
		t.Errorf("second run should use its own --git, stderr = %q", stderr)
	}
}
