package models

// Student is the roster record kept alongside a registered identity.
// It corresponds to the 'students' table. Names carry no uniqueness
// constraint: registering the same name twice yields two rows, just as
// it yields two gallery entries. Embeddings are never stored here; the
// gallery recomputes them from the reference image at bootstrap.
type Student struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string  `gorm:"not null;index" json:"name"`
	ImagePath     string  `gorm:"not null" json:"image_path"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	CreatedAt     int64   `gorm:"not null" json:"registered_at"` // Unix timestamp
	UpdatedAt     int64   `gorm:"not null" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Student) TableName() string {
	return "students"
}
