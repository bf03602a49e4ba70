package repository

import (
	"github.com/attendsys/attendsysbackend/models"
)

// StudentRepositoryInterface defines the methods for roster data operations
type StudentRepositoryInterface interface {
	Create(student *models.Student) error
	GetByID(id uint) (*models.Student, error)
	ListAll() ([]models.Student, error)
	ExistsByImagePath(imagePath string) (bool, error)
}
