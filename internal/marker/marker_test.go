package marker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"OSPFGraceRestart/internal/domain"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	now := time.Unix(1_700_000_000, 0).UTC()

	if err := Write(dir, true, domain.ReasonSoftwareReload, now); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rec, err := Read(dir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Read returned nil record for a file that was just written")
	}
	if !rec.RestartTime.Equal(now) {
		t.Fatalf("RestartTime mismatch: got %v, want %v", rec.RestartTime, now)
	}
	if !rec.Enable {
		t.Fatal("Enable should be true")
	}
	if rec.Reason != domain.ReasonSoftwareReload {
		t.Fatalf("Reason mismatch: got %v, want %v", rec.Reason, domain.ReasonSoftwareReload)
	}
}

// TestReadRemovesFile verifies P6: the marker file does not exist after a
// successful Read.
func TestReadRemovesFile(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, false, domain.ReasonUnknown, time.Now()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := Read(dir); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Fatalf("expected marker file to be removed, stat error: %v", err)
	}
}

func TestReadAbsentFileIsColdStart(t *testing.T) {
	dir := t.TempDir()
	rec, err := Read(dir)
	if err != nil {
		t.Fatalf("Read on absent file should not error, got: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record for cold start, got %+v", rec)
	}
}

func TestWireFormat(t *testing.T) {
	dir := t.TempDir()
	now := time.Unix(42, 0)
	if err := Write(dir, true, domain.ReasonSwitchover, now); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := "RESTARTTIME\t42\nGRACEFULEENABLE\t1\nRESTARTRSN\t3\n"
	if string(data) != want {
		t.Fatalf("wire format mismatch:\ngot:  %q\nwant: %q", string(data), want)
	}
}
