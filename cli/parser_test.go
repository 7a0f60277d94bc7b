package cli

import (
	"errors"
	"testing"
)

func TestParseInsert(t *testing.T) {
	cmd, err := Parse("BTREE INSERT 4 four")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Target != "BTREE" || cmd.Op != OpInsert {
		t.Fatalf("parsed %q %q", cmd.Target, cmd.Op)
	}
	if !cmd.HasKey || cmd.Key != 4 {
		t.Fatalf("key = %d (has=%v), want 4", cmd.Key, cmd.HasKey)
	}
	if !cmd.HasValue || cmd.Value != "four" {
		t.Fatalf("value = %q (has=%v), want \"four\"", cmd.Value, cmd.HasValue)
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	for _, line := range []string{"btree search 1", "Btree Search 1", "BTREE SEARCH 1"} {
		cmd, err := Parse(line)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		if cmd.Target != "BTREE" || cmd.Op != OpSearch {
			t.Fatalf("parse %q: got %q %q", line, cmd.Target, cmd.Op)
		}
	}
}

func TestParseSnapshotWithoutKey(t *testing.T) {
	cmd, err := Parse("BTREE SNAPSHOT")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.HasKey || cmd.HasValue {
		t.Fatalf("snapshot parsed with key/value: %+v", cmd)
	}
}

func TestParseNegativeKey(t *testing.T) {
	cmd, err := Parse("BTREE DELETE -42")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Key != -42 {
		t.Fatalf("key = %d, want -42", cmd.Key)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"BTREE",
		"BTREE FROBNICATE 1",
		"BTREE INSERT notakey four",
		"BTREE INSERT 99999999999 four",
	}
	for _, line := range cases {
		if _, err := Parse(line); err == nil {
			t.Fatalf("parse %q succeeded, want error", line)
		}
	}
	if _, err := Parse(""); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("empty line: got %v, want ErrEmptyCommand", err)
	}
}
