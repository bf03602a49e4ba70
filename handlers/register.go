package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/attendsys/attendsysbackend/config"
	"github.com/attendsys/attendsysbackend/gallery"
	"github.com/attendsys/attendsysbackend/media"
	"github.com/attendsys/attendsysbackend/models"
	"github.com/attendsys/attendsysbackend/repository"
	"github.com/attendsys/attendsysbackend/utils"
)

type RegisterHandler struct {
	Cfg         config.Config
	Gallery     *gallery.Gallery
	Faces       FaceSource
	StudentRepo repository.StudentRepositoryInterface
}

// RegisterFace extracts an embedding from a labeled image and appends
// a new identity to the gallery. The raw image is persisted under the
// identity's name so a restart rebuilds the same gallery from disk.
func (rh *RegisterHandler) RegisterFace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image string `json:"image"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid name"})
		return
	}

	data, err := media.DataURLBytes(req.Image)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	img, err := media.DecodeImageBytes(data)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer img.Close()

	detections := rh.Faces.DetectAndEmbed(img)
	embeddings := make([][]float32, 0, len(detections))
	for _, det := range detections {
		embeddings = append(embeddings, det.Embedding)
	}

	if len(embeddings) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No face detected in image"})
		return
	}

	// persist the reference image before touching the gallery so a
	// failed write does not leave an identity that will vanish on the
	// next restart
	imagePath := filepath.Join(rh.Cfg.DataDirectory, name+".jpg")
	if err := utils.WriteFileAtomic(imagePath, data); err != nil {
		log.Printf("Error persisting registration image for %s: %v", name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save registration image"})
		return
	}

	if err := rh.Gallery.Register(name, embeddings); err != nil {
		// unreachable with a non-empty embedding list, kept for the
		// contract's sake
		if errors.Is(err, gallery.ErrNoFaceDetected) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No face detected in image"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rh.recordStudent(name, imagePath)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Face registered successfully"})
}

// recordStudent adds the roster row and thumbnail for a registration.
// Both are best-effort: the identity is already live in the gallery.
func (rh *RegisterHandler) recordStudent(name, imagePath string) {
	if rh.StudentRepo == nil {
		return
	}

	var thumbPath *string
	thumbFilename, err := utils.GenerateThumbnail(imagePath, rh.Cfg.ThumbnailsPath, rh.Cfg.ThumbnailMaxSize, rh.Cfg.ThumbnailMaxSize)
	if err != nil {
		log.Printf("Error generating thumbnail for %s: %v", name, err)
	} else {
		thumbPath = &thumbFilename
	}

	student := models.Student{
		Name:          name,
		ImagePath:     imagePath,
		ThumbnailPath: thumbPath,
	}
	if err := rh.StudentRepo.Create(&student); err != nil {
		log.Printf("Error adding %s to the roster: %v", name, err)
	}
}
