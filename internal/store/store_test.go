package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetSaveGetRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	type rec struct {
		Name string `json:"name"`
	}
	want := rec{Name: "hello"}
	if err := s.Set("things.json", "k1", want); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("things.json"); err != nil {
		t.Fatal(err)
	}

	// Fresh store over the same directory, forcing a disk read.
	s2 := New(s.dir)
	var got rec
	ok, err := s2.GetInto("things.json", "k1", &got)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if got.Name != want.Name {
		t.Errorf("got %q, want %q", got.Name, want.Name)
	}
}

func TestGetMissingFileReturnsFalseNotError(t *testing.T) {
	s := New(t.TempDir())
	_, ok := s.Get("nope.json", "k1")
	if ok {
		t.Error("expected missing file to report key absent")
	}
}

func TestGetCorruptFileDegradesToAbsent(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, ok := s.Get("bad.json", "k1")
	if ok {
		t.Error("expected corrupt file to degrade to key absent")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Delete("things.json"); err != nil {
		t.Fatalf("delete of absent file should succeed: %v", err)
	}
	if err := s.Set("things.json", "k", 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("things.json"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("things.json"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("things.json"); err != nil {
		t.Errorf("second delete should also succeed: %v", err)
	}
	if _, ok := s.Get("things.json", "k"); ok {
		t.Error("expected key gone after delete")
	}
}
