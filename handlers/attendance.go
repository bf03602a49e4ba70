package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/attendsys/attendsysbackend/ledger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler struct {
	Ledger *ledger.Ledger
}

// GetAttendance returns every recorded attendance row in append order.
// A ledger that does not exist yet reads as an empty list.
func (ah *AttendanceHandler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	entries, err := ah.Ledger.ReadAll()
	if err != nil {
		log.Printf("Error reading attendance ledger: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// DownloadAttendance serves the ledger workbook verbatim as a
// date-stamped download. Unlike GetAttendance, a missing ledger is an
// error here.
func (ah *AttendanceHandler) DownloadAttendance(w http.ResponseWriter, r *http.Request) {
	data, filename, err := ah.Ledger.Export()
	if err != nil {
		if !errors.Is(err, ledger.ErrNoLedger) {
			log.Printf("Error exporting attendance ledger: %v", err)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing attendance download: %v", err)
	}
}
