package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/attendsys/attendsysbackend/engagement"
	"github.com/attendsys/attendsysbackend/media"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// FaceSource is the face-detection/embedding engine surface the
// handlers depend on.
type FaceSource interface {
	DetectAndEmbed(img gocv.Mat) []media.Detection
}

// GazeSource is the gaze-classification engine surface the handlers
// depend on.
type GazeSource interface {
	Classify(img gocv.Mat) (engagement.GazeState, string)
}
