package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunTranslatesEachLine(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"method":"GET","path":"users","query":"id=eq.1"}`,
		`{"method":"DELETE","path":"users"}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d output lines, want 2: %q", len(lines), out.String())
	}

	var first outputLine
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Query != `SELECT * FROM "public"."users" WHERE "id" = $1` {
		t.Errorf("got %q", first.Query)
	}

	var second outputLine
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if second.Error == "" {
		t.Error("expected an error for the filterless delete")
	}
}

func TestRunSkipsBlankLines(t *testing.T) {
	t.Parallel()

	input := "\n" + `{"method":"GET","path":"users"}` + "\n\n"
	var out bytes.Buffer
	if err := run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d output lines, want 1: %q", len(lines), out.String())
	}
}
