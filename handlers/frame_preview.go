package handlers

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/attendsys/attendsysbackend/gallery"
	"github.com/attendsys/attendsysbackend/media"
)

// FramePreviewHandler renders a submitted frame with detection boxes
// and resolved names drawn on it, for debugging camera placement and
// recognition quality.
type FramePreviewHandler struct {
	Gallery    *gallery.Gallery
	Faces      FaceSource
	Comparator gallery.Comparator
}

func (fph *FramePreviewHandler) ServeFrameWithFaces(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Frame string `json:"frame"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	img, err := media.DecodeDataURL(req.Frame)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer img.Close()

	blue := color.RGBA{B: 255}
	thickness := 2

	detections := fph.Faces.DetectAndEmbed(img)
	for _, det := range detections {
		rect := det.Box.Rect()
		gocv.Rectangle(&img, rect, blue, thickness)

		label := fph.Gallery.Resolve(det.Embedding, fph.Comparator)
		gocv.PutText(&img, label, image.Pt(rect.Min.X, rect.Min.Y-5), gocv.FontHersheySimplex, 0.5, blue, 1)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		log.Printf("Error encoding frame preview: %v", err)
		http.Error(w, "Failed to encode image", http.StatusInternalServerError)
		return
	}
	defer buf.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(buf.GetBytes()); err != nil {
		log.Printf("Error writing frame preview response: %v", err)
	}
}
