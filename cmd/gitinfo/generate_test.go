package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/gitinfo/internal/output"
)

const markedSource = `package version

//gitinfo:generate
type Build struct{}

// Box holds one value.
//
//gitinfo:generate
type Box[T any] struct{ v T }

type Unmarked struct{}
`

func writePackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "version.go"), []byte(markedSource), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestGenerate_WritesDiscoveredTargets(t *testing.T) {
	dir := writePackage(t)

	stdout, stderr, err := executeChild(t, newGenerateCmdInternal(usableRepo()), dir)
	if err != nil {
		t.Fatalf("generate error = %v\nstderr: %s", err, stderr)
	}

	build := readFile(t, filepath.Join(dir, "version.Build.GitInformationGenerator.g.go"))
	if !strings.Contains(build, `func (Build) BranchName() string { return "main" }`) {
		t.Errorf("Build file missing branch:\n%s", build)
	}
	box := readFile(t, filepath.Join(dir, "version.Box_T_.GitInformationGenerator.g.go"))
	if !strings.Contains(box, `func (Box[T]) Hash() string { return "0123abcd" }`) {
		t.Errorf("Box file missing hash:\n%s", box)
	}
	if _, err := os.Stat(filepath.Join(dir, "version.Unmarked.GitInformationGenerator.g.go")); err == nil {
		t.Error("unmarked type should not be generated")
	}
	if strings.Count(stdout, "Wrote") != 2 {
		t.Errorf("stdout = %q, want two Wrote lines", stdout)
	}
	if !strings.Contains(stdout, "2 written, 0 unchanged") {
		t.Errorf("stdout = %q, want a summary line", stdout)
	}
	if stderr != "" {
		t.Errorf("usable repository should not warn: %q", stderr)
	}
}

func TestGenerate_SecondRunIsUnchanged(t *testing.T) {
	dir := writePackage(t)

	if _, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()), dir); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()), dir, "--json")
	if err != nil {
		t.Fatal(err)
	}

	var got generateResult
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(got.Written) != 0 || len(got.Unchanged) != 2 {
		t.Errorf("written=%v unchanged=%v", got.Written, got.Unchanged)
	}
	if len(got.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v", got.Diagnostics)
	}
}

func TestGenerate_UnusableRepositoryWarns(t *testing.T) {
	dir := writePackage(t)

	_, stderr, err := executeChild(t, newGenerateCmdInternal(&fakeRepo{}), dir)
	if err != nil {
		t.Fatalf("an unusable repository is not an error: %v", err)
	}
	if strings.Count(stderr, "warning GITINFO01") != 2 {
		t.Errorf("want one GITINFO01 per target, stderr:\n%s", stderr)
	}
	if !strings.Contains(stderr, filepath.Join(dir, "version.go")+":4: warning GITINFO01") {
		t.Errorf("diagnostic should point at the declaration:\n%s", stderr)
	}

	build := readFile(t, filepath.Join(dir, "version.Build.GitInformationGenerator.g.go"))
	if !strings.Contains(build, `return ""`) || !strings.Contains(build, "return []string{}") {
		t.Errorf("file should carry empty values:\n%s", build)
	}
}

func TestGenerate_UnusableRepositoryJSON(t *testing.T) {
	dir := writePackage(t)

	stdout, _, err := executeChild(t, newGenerateCmdInternal(&fakeRepo{}), dir, "--json")
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Diagnostics []struct {
			ID       string `json:"id"`
			Severity string `json:"severity"`
			Target   string `json:"target"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(got.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %+v", got.Diagnostics)
	}
	for _, d := range got.Diagnostics {
		if d.ID != "GITINFO01" || d.Severity != "warning" {
			t.Errorf("diagnostic = %+v", d)
		}
	}
}

func TestGenerate_TypeFlagUnderGoGenerate(t *testing.T) {
	t.Setenv("GOPACKAGE", "version")
	t.Setenv("GOFILE", "build.go")
	t.Setenv("GOLINE", "7")

	stdout, stderr, err := executeChild(t, newGenerateCmdInternal(&fakeRepo{}), "--type", "Build", "--stdout")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "\npackage version\n") {
		t.Errorf("namespace should come from $GOPACKAGE:\n%s", stdout)
	}
	if !strings.Contains(stderr, "build.go:7: warning GITINFO01") {
		t.Errorf("diagnostic should use $GOFILE:$GOLINE, stderr: %q", stderr)
	}
}

func TestGenerate_CSharpStdout(t *testing.T) {
	stdout, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()),
		"--type", "AppInfo", "--namespace", "MyApp", "--language", "csharp", "--stdout")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"// <auto-generated/>",
		"namespace MyApp;",
		"partial class AppInfo",
		`public static string BranchName => "main";`,
		`public static string[] Tags => new string[] { "v1.1", "v1.0" };`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q:\n%s", want, stdout)
		}
	}
}

func TestGenerate_Check(t *testing.T) {
	dir := writePackage(t)

	_, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()), dir, "--check")
	if code := output.GetExitCode(err); code != output.ExitStale {
		t.Fatalf("missing files: exit code = %d, want %d", code, output.ExitStale)
	}

	if _, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()), dir); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()), dir, "--check")
	if err != nil {
		t.Fatalf("fresh files: check error = %v", err)
	}
	if !strings.Contains(stdout, "up to date") {
		t.Errorf("stdout = %q", stdout)
	}

	moved := usableRepo()
	moved.branch = "release/2.x"
	stdout, _, err = executeChild(t, newGenerateCmdInternal(moved), dir, "--check")
	if code := output.GetExitCode(err); code != output.ExitStale {
		t.Fatalf("stale files: exit code = %d, want %d", code, output.ExitStale)
	}
	for _, want := range []string{
		"--- a/version.Build.GitInformationGenerator.g.go",
		`-func (Build) BranchName() string { return "main" }`,
		`+func (Build) BranchName() string { return "release/2.x" }`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("diff should contain %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(readFile(t, filepath.Join(dir, "version.Build.GitInformationGenerator.g.go")), "release/2.x") {
		t.Error("--check must not write files")
	}
}

func TestGenerate_OutputFlag(t *testing.T) {
	dir := writePackage(t)
	out := filepath.Join(t.TempDir(), "gen")

	if _, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()), dir, "--output", out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "version.Build.GitInformationGenerator.g.go")); err != nil {
		t.Errorf("file should be written to --output: %v", err)
	}
}

func TestGenerate_NoTargetsWarns(t *testing.T) {
	_, stderr, err := executeChild(t, newGenerateCmdInternal(usableRepo()), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "no targets") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestGenerate_UserErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown language", args: []string{"--type", "Foo", "--language", "rust"}},
		{name: "type with brackets", args: []string{"--type", "Foo[T]"}},
		{name: "missing directory", args: []string{filepath.Join(t.TempDir(), "nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeChild(t, newGenerateCmdInternal(usableRepo()), tt.args...)
			if code := output.GetExitCode(err); code != output.ExitUserError {
				t.Errorf("exit code = %d, want %d (err=%v)", code, output.ExitUserError, err)
			}
		})
	}
}

func TestGenerate_StartFailureIsSystemError(t *testing.T) {
	repo := &fakeRepo{usableErr: output.NewSystemError("git not found in PATH")}

	_, stderr, err := executeChild(t, newGenerateCmdInternal(repo), "--type", "Foo", "--stdout")
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Fatalf("exit code = %d, want %d", code, output.ExitSystemError)
	}
	if !strings.Contains(stderr, "git not found") {
		t.Errorf("stderr = %q", stderr)
	}
}
