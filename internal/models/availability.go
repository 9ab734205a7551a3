package models

// AvailabilityRule represents a recurring weekly time window in which a doctor
// accepts appointments. Multiple rules may exist per (doctor, dayOfWeek) to
// represent discrete windows. Rules are soft-disabled via IsActive rather than
// removed, so past appointments keep their context.
type AvailabilityRule struct {
	BaseModel
	DoctorID  string `gorm:"size:36;index;not null" json:"doctorId"`
	DayOfWeek int    `gorm:"not null" json:"dayOfWeek"`        // 0=Sunday .. 6=Saturday
	StartTime string `gorm:"size:5;not null" json:"startTime"` // "HH:MM"
	EndTime   string `gorm:"size:5;not null" json:"endTime"`   // "HH:MM", must be after StartTime
	IsActive  bool   `gorm:"default:true" json:"isActive"`

	// Relations
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}
