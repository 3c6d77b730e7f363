package jdupes

import (
	"reflect"
	"testing"
)

func TestRunnerArgs(t *testing.T) {
	r := &Runner{
		Path:       "jdupes",
		HashDB:     "/home/u/.dupesweep/hash.db",
		ExcludeExt: "dupes",
		ExtraArgs:  []string{"--min-size=1024"},
	}

	got := r.Args([]string{"/data/a", "/data/b"})
	want := []string{
		"--param-order", "--recurse",
		"--hash-db=/home/u/.dupesweep/hash.db",
		"--ext-filter=noext:dupes",
		"--min-size=1024",
		"/data/a", "/data/b",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestRunnerArgsMinimal(t *testing.T) {
	r := &Runner{Path: "jdupes"}

	got := r.Args([]string{"/data/a"})
	want := []string{"--param-order", "--recurse", "/data/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestRunnerResolveMissing(t *testing.T) {
	r := &Runner{Path: "definitely-not-a-real-binary-name"}
	if _, err := r.Resolve(); err == nil {
		t.Error("expected error for missing binary")
	}
}
