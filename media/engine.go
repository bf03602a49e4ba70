package media

import (
	"fmt"
	"image"
	"log"

	"gocv.io/x/gocv"
)

// Detection is one detected face: its bounding box inside the frame
// plus the embedding extracted from that region.
type Detection struct {
	Box       DetectionResult
	Embedding []float32
}

// FaceEngine couples the DNN face detector with the embedding model.
type FaceEngine struct {
	Detector   *DNNFaceDetector
	Recognizer *FaceRecognitionModel
}

func NewFaceEngine(detector *DNNFaceDetector, recognizer *FaceRecognitionModel) *FaceEngine {
	return &FaceEngine{Detector: detector, Recognizer: recognizer}
}

func (e *FaceEngine) Close() {
	e.Detector.Close()
	e.Recognizer.Close()
}

// DetectAndEmbed finds every face in the frame and extracts an
// embedding per face. Faces whose embedding extraction fails are
// dropped with a warning.
func (e *FaceEngine) DetectAndEmbed(img gocv.Mat) []Detection {
	boxes := e.Detector.DetectFaces(img)
	bounds := image.Rect(0, 0, img.Cols(), img.Rows())

	detections := []Detection{}
	for _, box := range boxes {
		rect := box.Rect().Intersect(bounds)
		if rect.Empty() {
			continue
		}
		region := img.Region(rect)
		embedding := e.Recognizer.ExtractEmbedding(region)
		region.Close()

		if embedding == nil {
			log.Printf("recognition: Warning - failed to extract embedding for face at %v", rect)
			continue
		}
		detections = append(detections, Detection{Box: box, Embedding: embedding})
	}
	return detections
}

// EmbedImageFile reads an image from disk and returns one embedding
// per detected face. Used by the gallery bootstrap scan.
func (e *FaceEngine) EmbedImageFile(path string) ([][]float32, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("failed to read image file: %s", path)
	}
	defer img.Close()

	detections := e.DetectAndEmbed(img)
	embeddings := make([][]float32, 0, len(detections))
	for _, det := range detections {
		embeddings = append(embeddings, det.Embedding)
	}
	return embeddings, nil
}
