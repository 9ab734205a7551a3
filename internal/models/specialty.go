package models

// Specialty represents a medical specialty doctors can belong to
type Specialty struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Relations
	Doctors []Doctor `gorm:"foreignKey:SpecialtyID" json:"-"`
}
