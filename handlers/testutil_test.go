package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gocv.io/x/gocv"
	"gorm.io/gorm"

	"github.com/attendsys/attendsysbackend/engagement"
	"github.com/attendsys/attendsysbackend/media"
	"github.com/attendsys/attendsysbackend/models"
)

// tinyPNG is a valid 1x1 PNG, enough for the decode step of the
// pipeline; the engine stubs below ignore the pixels anyway.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

const tinyPNGDataURL = "data:image/png;base64," + tinyPNG

// stubFaceSource returns canned detections regardless of the frame.
type stubFaceSource struct {
	detections []media.Detection
}

func (s stubFaceSource) DetectAndEmbed(img gocv.Mat) []media.Detection {
	return s.detections
}

// stubGazeSource reports a fixed gaze state.
type stubGazeSource struct {
	state engagement.GazeState
}

func (s stubGazeSource) Classify(img gocv.Mat) (engagement.GazeState, string) {
	return s.state, s.state.Status()
}

// fakeStudentRepo is an in-memory StudentRepositoryInterface.
type fakeStudentRepo struct {
	students  []models.Student
	createErr error
	listErr   error
}

func (f *fakeStudentRepo) Create(student *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	student.ID = uint(len(f.students) + 1)
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) GetByID(id uint) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			return &f.students[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) ListAll() ([]models.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.students, nil
}

func (f *fakeStudentRepo) ExistsByImagePath(imagePath string) (bool, error) {
	for _, s := range f.students {
		if s.ImagePath == imagePath {
			return true, nil
		}
	}
	return false, nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func parseJSONResponse(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, rec.Body.String())
	}
}
