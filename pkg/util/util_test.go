package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "nzbget.conf")

	if err := WriteFileAtomic(path, []byte("MainDir=/a\n"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("MainDir=/b\n"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "MainDir=/b\n" {
		t.Errorf("Unexpected content %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected existing permissions 0600 to be kept, got %v", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Temp files left behind: %d entries", len(entries))
	}
}

func TestGenerateUniqueID(t *testing.T) {
	a, b := GenerateUniqueID(), GenerateUniqueID()
	if a == b {
		t.Errorf("Expected distinct ids, got %s twice", a)
	}
	if err := ValidateSnapshotID(a); err != nil {
		t.Errorf("Generated id rejected: %v", err)
	}
}

func TestValidateSnapshotID(t *testing.T) {
	for _, id := range []string{"", "../etc", "20250101-120000-001-ab/../../x"} {
		if err := ValidateSnapshotID(id); err == nil {
			t.Errorf("Expected %q to be rejected", id)
		}
	}
}

func TestValidateOption(t *testing.T) {
	if err := ValidateOptionName("Server1.Host"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	for _, name := range []string{"", "A=B", "#Foo", "a\nb"} {
		if err := ValidateOptionName(name); err == nil {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
	if err := ValidateOptionValue("line1\nline2"); err == nil {
		t.Error("Expected multi-line value to be rejected")
	}
}
