// Package ledger persists attendance rows to an append-only Excel
// workbook. The workbook has a single sheet whose first row is the
// column header; every append adds exactly one data row at the end.
package ledger

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoLedger is returned by Export when no workbook exists yet.
// ReadAll deliberately does not share this behavior: a missing
// workbook reads as zero rows, not as an error.
var ErrNoLedger = errors.New("no attendance ledger exists yet")

const (
	SheetName     = "Attendance"
	StatusPresent = "Present"
	dateLayout    = "2006-01-02"
)

var headerRow = []interface{}{"Date", "Name", "Status", "Engagement", "Remarks"}

// Entry is one recorded detection of a known identity. There is no
// dedup: a student seen in N frames produces N rows.
type Entry struct {
	Date       string `json:"date"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Engagement int    `json:"engagement"`
	Remarks    string `json:"remarks"`
}

// NewEntry builds a row for today's date with status Present.
func NewEntry(name string, engagement int, remarks string) Entry {
	return Entry{
		Date:       time.Now().Format(dateLayout),
		Name:       name,
		Status:     StatusPresent,
		Engagement: engagement,
		Remarks:    remarks,
	}
}

// Ledger serializes all appends to the backing workbook through a
// single lock so concurrent first-writers cannot both write the
// header or clobber each other's rows.
type Ledger struct {
	path string
	mu   sync.RWMutex
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Append writes one row at the end of the workbook, creating the
// workbook with its header row first if it does not exist yet.
func (l *Ledger) Append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.openOrCreateLocked()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("failed to read ledger sheet: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("failed to compute ledger row position: %w", err)
	}
	row := []interface{}{entry.Date, entry.Name, entry.Status, entry.Engagement, entry.Remarks}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}

	if err := f.SaveAs(l.path); err != nil {
		return fmt.Errorf("failed to save ledger %s: %w", l.path, err)
	}
	return nil
}

// openOrCreateLocked opens the workbook, or builds a fresh one with
// the header row when the file is absent. Caller must hold the lock.
func (l *Ledger) openOrCreateLocked() (*excelize.File, error) {
	if _, err := os.Stat(l.path); err == nil {
		f, err := excelize.OpenFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger %s: %w", l.path, err)
		}
		return f, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat ledger %s: %w", l.path, err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name ledger sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write ledger header: %w", err)
	}
	return f, nil
}

// ReadAll returns every data row in append order, excluding the
// header. A missing workbook reads as an empty slice.
func (l *Ledger) ReadAll() ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return []Entry{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat ledger %s: %w", l.path, err)
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", l.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger sheet: %w", err)
	}

	entries := []Entry{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		// GetRows drops trailing empty cells
		for len(row) < 5 {
			row = append(row, "")
		}
		engagement, _ := strconv.Atoi(row[3])
		entries = append(entries, Entry{
			Date:       row[0],
			Name:       row[1],
			Status:     row[2],
			Engagement: engagement,
			Remarks:    row[4],
		})
	}
	return entries, nil
}

// Export returns the workbook's bytes verbatim plus a date-stamped
// download filename. Unlike ReadAll, a missing workbook is an error.
func (l *Ledger) Export() ([]byte, string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNoLedger
		}
		return nil, "", fmt.Errorf("failed to read ledger %s: %w", l.path, err)
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format(dateLayout))
	return data, filename, nil
}
