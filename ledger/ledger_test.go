package ledger

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"
)

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "attendance.xlsx"))
}

func TestReadAllMissingFile(t *testing.T) {
	l := tempLedger(t)
	entries, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing ledger failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty slice, got %d entries", len(entries))
	}
}

func TestExportMissingFile(t *testing.T) {
	l := tempLedger(t)
	_, _, err := l.Export()
	if !errors.Is(err, ErrNoLedger) {
		t.Fatalf("expected ErrNoLedger, got %v", err)
	}
}

func TestAppendThenReadAll(t *testing.T) {
	l := tempLedger(t)

	want := []Entry{
		{Date: "2026-03-02", Name: "alice", Status: StatusPresent, Engagement: 100, Remarks: "Actively participating"},
		{Date: "2026-03-02", Name: "bob", Status: StatusPresent, Engagement: 80, Remarks: "Student is distracted"},
		{Date: "2026-03-03", Name: "alice", Status: StatusPresent, Engagement: 70, Remarks: "Student appears to be sleeping"},
	}
	for _, e := range want {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAppendWritesHeaderExactlyOnce(t *testing.T) {
	l := tempLedger(t)
	for i := 0; i < 3; i++ {
		entry := NewEntry(fmt.Sprintf("student%d", i), 100, "Actively participating")
		if err := l.Append(entry); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		t.Fatalf("failed to open written ledger: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "Name" || rows[0][2] != "Status" {
		t.Errorf("first row is not the header: %v", rows[0])
	}
	for i, row := range rows[1:] {
		if row[0] == "Date" {
			t.Errorf("duplicate header at data row %d", i)
		}
	}
}

func TestExportReturnsDateStampedFilename(t *testing.T) {
	l := tempLedger(t)
	if err := l.Append(NewEntry("alice", 100, "Actively participating")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, filename, err := l.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("Export returned no bytes")
	}
	if filepath.Ext(filename) != ".xlsx" {
		t.Errorf("expected .xlsx filename, got %q", filename)
	}
	if len(filename) != len("attendance_2006-01-02.xlsx") {
		t.Errorf("unexpected filename format: %q", filename)
	}
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	l := tempLedger(t)

	const writers = 8
	const perWriter = 5

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				name := fmt.Sprintf("writer%d-entry%d", w, i)
				if err := l.Append(NewEntry(name, 100, "Actively participating")); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Append failed: %v", err)
	}

	entries, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != writers*perWriter {
		t.Fatalf("expected %d entries, got %d", writers*perWriter, len(entries))
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Status != StatusPresent {
			t.Errorf("entry %q has status %q", e.Name, e.Status)
		}
		if seen[e.Name] {
			t.Errorf("duplicate entry %q", e.Name)
		}
		seen[e.Name] = true
	}
}
