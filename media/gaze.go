package media

import (
	"image"
	"log"

	"gocv.io/x/gocv"

	"github.com/attendsys/attendsysbackend/engagement"
)

// pupil isolation parameters, tuned for webcam classroom footage
const (
	pupilThreshold = 42
	rightwardRatio = 0.35
	leftwardRatio  = 0.65
)

// GazeEngine classifies where a student is looking in a frame using
// Haar cascades for the face and eyes and a thresholded pupil centroid
// for direction. Internals are intentionally coarse; callers only rely
// on the categorical result.
type GazeEngine struct {
	faceCascade gocv.CascadeClassifier
	eyeCascade  gocv.CascadeClassifier
	Enabled     bool
}

// NewGazeEngine loads the face and eye cascade files. A failed load
// disables the engine; classification then always reports center.
func NewGazeEngine(faceCascadePath, eyeCascadePath string) *GazeEngine {
	faceCascade := gocv.NewCascadeClassifier()
	if !faceCascade.Load(faceCascadePath) {
		log.Printf("gaze: ERROR - failed to load face cascade: %s", faceCascadePath)
		faceCascade.Close()
		return &GazeEngine{Enabled: false}
	}

	eyeCascade := gocv.NewCascadeClassifier()
	if !eyeCascade.Load(eyeCascadePath) {
		log.Printf("gaze: ERROR - failed to load eye cascade: %s", eyeCascadePath)
		faceCascade.Close()
		eyeCascade.Close()
		return &GazeEngine{Enabled: false}
	}

	log.Println("gaze: loaded face and eye cascades")
	return &GazeEngine{faceCascade: faceCascade, eyeCascade: eyeCascade, Enabled: true}
}

func (e *GazeEngine) Close() {
	if e != nil && e.Enabled {
		e.faceCascade.Close()
		e.eyeCascade.Close()
		e.Enabled = false
	}
}

// Classify returns the frame's gaze state plus its display status.
func (e *GazeEngine) Classify(img gocv.Mat) (engagement.GazeState, string) {
	state := e.classify(img)
	return state, state.Status()
}

func (e *GazeEngine) classify(img gocv.Mat) engagement.GazeState {
	if e == nil || !e.Enabled || img.Empty() {
		return engagement.GazeCenter
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	faces := e.faceCascade.DetectMultiScale(gray)
	if len(faces) == 0 {
		// no face to read; treat as attentive rather than penalizing
		return engagement.GazeCenter
	}

	face := largestRect(faces)

	// eyes sit in the upper half of the face; searching there avoids
	// spurious hits on nostrils and mouth corners
	upperFace := image.Rect(face.Min.X, face.Min.Y, face.Max.X, face.Min.Y+face.Dy()/2)
	faceRegion := gray.Region(upperFace)
	defer faceRegion.Close()

	eyes := e.eyeCascade.DetectMultiScale(faceRegion)
	if len(eyes) == 0 {
		return engagement.GazeBlinking
	}

	var ratioSum float64
	var located int
	for i, eye := range eyes {
		if i >= 2 {
			break
		}
		// drop the eyebrow band at the top of the eye rectangle
		trimmed := image.Rect(eye.Min.X, eye.Min.Y+eye.Dy()/4, eye.Max.X, eye.Max.Y)
		eyeRegion := faceRegion.Region(trimmed)
		ratio, ok := pupilRatio(eyeRegion)
		eyeRegion.Close()
		if ok {
			ratioSum += ratio
			located++
		}
	}

	if located == 0 {
		return engagement.GazeBlinking
	}

	avg := ratioSum / float64(located)
	switch {
	case avg <= rightwardRatio:
		return engagement.GazeRight
	case avg >= leftwardRatio:
		return engagement.GazeLeft
	default:
		return engagement.GazeCenter
	}
}

// pupilRatio isolates the pupil inside a grayscale eye region and
// returns its horizontal position as a 0..1 ratio (0 = far right edge
// of the eye from the camera's view).
func pupilRatio(eyeRegion gocv.Mat) (float64, bool) {
	if eyeRegion.Empty() || eyeRegion.Cols() == 0 {
		return 0, false
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(eyeRegion, &blurred, image.Pt(7, 7), 0, 0, gocv.BorderDefault)

	thresholded := gocv.NewMat()
	defer thresholded.Close()
	gocv.Threshold(blurred, &thresholded, pupilThreshold, 255, gocv.ThresholdBinaryInv)

	contours := gocv.FindContours(thresholded, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	bestIdx := -1
	var bestArea float64
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, false
	}

	pupil := gocv.BoundingRect(contours.At(bestIdx))
	centerX := float64(pupil.Min.X) + float64(pupil.Dx())/2
	return centerX / float64(eyeRegion.Cols()), true
}

func largestRect(rects []image.Rectangle) image.Rectangle {
	best := rects[0]
	for _, r := range rects[1:] {
		if r.Dx()*r.Dy() > best.Dx()*best.Dy() {
			best = r
		}
	}
	return best
}
