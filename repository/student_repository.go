package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/attendsys/attendsysbackend/models"
)

// StudentRepository handles database operations for the Student roster
type StudentRepository struct {
	DB *gorm.DB
}

// NewStudentRepository creates a new instance of StudentRepository
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// Create creates a new student record in the database
func (r *StudentRepository) Create(student *models.Student) error {
	now := time.Now().Unix()
	if student.CreatedAt == 0 {
		student.CreatedAt = now
	}
	if student.UpdatedAt == 0 {
		student.UpdatedAt = now
	}

	err := r.DB.Create(student).Error
	if err != nil {
		return fmt.Errorf("failed to create student %s: %w", student.Name, err)
	}
	return nil
}

// GetByID retrieves a student by their ID
func (r *StudentRepository) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	err := r.DB.First(&student, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get student by ID %d: %w", id, err)
	}
	return &student, nil
}

// ListAll retrieves every student, in registration order
func (r *StudentRepository) ListAll() ([]models.Student, error) {
	var students []models.Student
	err := r.DB.Order("id ASC").Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// ExistsByImagePath reports whether any roster row already references
// the given reference image, used by the startup backfill scan
func (r *StudentRepository) ExistsByImagePath(imagePath string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Student{}).Where("image_path = ?", imagePath).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check roster for image %s: %w", imagePath, err)
	}
	return count > 0, nil
}
