package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/attendsys/attendsysbackend/engagement"
	"github.com/attendsys/attendsysbackend/gallery"
	"github.com/attendsys/attendsysbackend/ledger"
	"github.com/attendsys/attendsysbackend/media"
)

type FrameHandler struct {
	Gallery    *gallery.Gallery
	Ledger     *ledger.Ledger
	Faces      FaceSource
	Gaze       GazeSource
	Comparator gallery.Comparator
}

// ProcessFrame resolves every detected face in the submitted frame
// against the gallery, scores engagement from the frame's gaze state,
// and records one attendance row per recognized identity.
func (fh *FrameHandler) ProcessFrame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Frame string `json:"frame"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	img, err := media.DecodeDataURL(req.Frame)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer img.Close()

	// gaze is classified once per frame; every attendance row created
	// from this frame shares the resulting score and remark
	gazeState, gazeStatus := fh.Gaze.Classify(img)
	score, remarks := engagement.Score(gazeState)

	detections := fh.Faces.DetectAndEmbed(img)

	faces := []string{}
	for _, det := range detections {
		name := fh.Gallery.Resolve(det.Embedding, fh.Comparator)
		faces = append(faces, name)

		if name == gallery.UnknownName {
			continue
		}
		// attendance recording is best-effort; a ledger failure must
		// never fail the frame response
		if err := fh.Ledger.Append(ledger.NewEntry(name, score, remarks)); err != nil {
			log.Printf("Error recording attendance for %s: %v", name, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"faces":       faces,
		"engagement":  score,
		"remarks":     remarks,
		"gaze_status": gazeStatus,
	})
}
