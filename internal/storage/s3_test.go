package storage

import (
	"strings"
	"testing"
)

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("Report.PDF")
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("extension should be kept lower-cased, got %q", key)
	}
	if strings.Contains(key, "Report") {
		t.Fatalf("original name must not leak into the key, got %q", key)
	}

	if other := NewObjectKey("Report.PDF"); other == key {
		t.Fatalf("keys must be unique per call, got %q twice", key)
	}

	if noExt := NewObjectKey("README"); strings.Contains(noExt, ".") {
		t.Fatalf("a file without an extension gets a bare key, got %q", noExt)
	}
}
