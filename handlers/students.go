package handlers

import (
	"log"
	"net/http"

	"github.com/attendsys/attendsysbackend/models"
	"github.com/attendsys/attendsysbackend/repository"
)

type StudentHandler struct {
	StudentRepo repository.StudentRepositoryInterface
}

// ListStudents returns the registered roster in registration order.
func (sh *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := sh.StudentRepo.ListAll()
	if err != nil {
		log.Printf("Error listing students: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve students"})
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}
