package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/tuning.yaml"
	writeFile(t, path, `
kind: scripted-ai-tuning
def:
  difficulty:
    "1":
      level: hard
      adaptive: true
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run([validate]) = %d, stderr=%q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "OK") {
		t.Errorf("stdout missing OK: %q", stdout.String())
	}
}

func TestRunValidateMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", "/nonexistent/tuning.yaml"}, &stdout, &stderr)
	if code == 0 {
		t.Fatalf("run([validate]) on a missing file = 0, want nonzero")
	}
}

func TestRunReplayIsDeterministic(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"replay", "--steps", "20", "--seed", "7"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run([replay]) = %d, stderr=%q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "replay OK") {
		t.Errorf("stdout missing replay OK: %q", stdout.String())
	}
}

func TestRunShortSim(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"run", "--steps", "20", "--seed", "3"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run([run]) = %d, stderr=%q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "final snapshot") {
		t.Errorf("stdout missing final snapshot: %q", stdout.String())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
