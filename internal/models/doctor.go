package models

// Doctor represents a doctor profile attached to a user account
type Doctor struct {
	BaseModel
	UserID          string  `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	SpecialtyID     string  `gorm:"size:36;index;not null" json:"specialtyId"`
	Description     string  `gorm:"type:text" json:"description"`
	ExperienceYears int     `gorm:"default:0" json:"experienceYears"`
	Popularity      int     `gorm:"default:0" json:"popularity"` // derived score, 0..100
	ConsultationFee float64 `gorm:"default:0" json:"consultationFee"`
	IsActive        bool    `gorm:"default:true" json:"isActive"`

	// Relations
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Specialty Specialty `gorm:"foreignKey:SpecialtyID" json:"specialty"`

	Appointments      []Appointment      `gorm:"foreignKey:DoctorID" json:"-"`
	AvailabilityRules []AvailabilityRule `gorm:"foreignKey:DoctorID" json:"-"`
}
