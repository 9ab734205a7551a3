package handlers

import (
	"medbook-server/internal/models"
	"medbook-server/internal/reporting"
	"medbook-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DoctorHandler handles doctor profile requests.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// CreateDoctorRequest represents the request body for creating a doctor profile.
type CreateDoctorRequest struct {
	UserID          string  `json:"userId" binding:"required,uuid"`
	SpecialtyID     string  `json:"specialtyId" binding:"required,uuid"`
	Description     string  `json:"description"`
	ExperienceYears int     `json:"experienceYears" binding:"gte=0"`
	ConsultationFee float64 `json:"consultationFee" binding:"gte=0"`
}

// CreateDoctor handles creating a doctor profile for an existing user (admin).
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// The backing user must exist and carry the doctor role
	var user models.User
	if err := h.DB.Where("id = ? AND role = ?", req.UserID, models.RoleDoctor).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying user: "+err.Error())
		}
		return
	}

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", req.SpecialtyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Specialty not found")
		} else {
			utils.InternalServerError(c, "Database error verifying specialty: "+err.Error())
		}
		return
	}

	var existing models.Doctor
	if err := h.DB.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
		utils.BadRequest(c, "A doctor profile already exists for this user")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	doctor := models.Doctor{
		UserID:          req.UserID,
		SpecialtyID:     req.SpecialtyID,
		Description:     req.Description,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
		IsActive:        true,
	}
	if err := h.DB.Create(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	doctor.User = user
	doctor.Specialty = specialty
	utils.Created(c, "Doctor created successfully", doctor)
}

// GetDoctors handles fetching all doctors with refreshed popularity scores.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.fetchDoctorsWithPopularity(h.DB.Preload("User").Preload("Specialty"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetActiveDoctors handles fetching active doctors only. This is the listing
// patients book against.
func (h *DoctorHandler) GetActiveDoctors(c *gin.Context) {
	query := h.DB.Preload("User").Preload("Specialty").Where("is_active = ?", true)
	doctors, err := h.fetchDoctorsWithPopularity(query)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}
	utils.Success(c, "Active doctors fetched successfully", doctors)
}

// GetDoctorsBySpecialty handles fetching active doctors for a specialty,
// ordered by popularity descending.
func (h *DoctorHandler) GetDoctorsBySpecialty(c *gin.Context) {
	specialtyID := c.Param("specialtyId")

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", specialtyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Specialty not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	query := h.DB.Preload("User").Preload("Specialty").
		Where("specialty_id = ? AND is_active = ?", specialtyID, true).
		Order("popularity desc")
	doctors, err := h.fetchDoctorsWithPopularity(query)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetDoctorByID handles fetching a single doctor by ID.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	doctorID := c.Param("id")

	var doctor models.Doctor
	if err := h.DB.Preload("User").Preload("Specialty").First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

// UpdateDoctorRequest represents the request body for updating a doctor profile.
type UpdateDoctorRequest struct {
	SpecialtyID     string   `json:"specialtyId"`
	Description     *string  `json:"description"`
	ExperienceYears *int     `json:"experienceYears"`
	ConsultationFee *float64 `json:"consultationFee"`
	IsActive        *bool    `json:"isActive"`
}

// UpdateDoctor handles updating a doctor profile by ID (admin).
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	doctorID := c.Param("id")

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		utils.NotFound(c, "Doctor not found")
		return
	}

	if req.SpecialtyID != "" {
		var specialty models.Specialty
		if err := h.DB.First(&specialty, "id = ?", req.SpecialtyID).Error; err != nil {
			utils.NotFound(c, "Specialty not found")
			return
		}
		doctor.SpecialtyID = req.SpecialtyID
	}
	if req.Description != nil {
		doctor.Description = *req.Description
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor updated successfully", doctor)
}

// ToggleDoctorStatus flips a doctor's active flag (admin).
func (h *DoctorHandler) ToggleDoctorStatus(c *gin.Context) {
	doctorID := c.Param("id")

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	doctor.IsActive = !doctor.IsActive
	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor status: "+err.Error())
		return
	}

	utils.Success(c, "Doctor status updated successfully", doctor)
}

// DeleteDoctor handles deleting a doctor profile by ID (admin).
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	doctorID := c.Param("id")

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor deleted successfully", nil)
}

// fetchDoctorsWithPopularity loads doctors via the given query and refreshes
// their popularity scores from current appointment volumes before returning.
func (h *DoctorHandler) fetchDoctorsWithPopularity(query *gorm.DB) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	if len(doctors) == 0 {
		return doctors, nil
	}

	ids := make([]string, len(doctors))
	for i, d := range doctors {
		ids[i] = d.ID
	}

	// One grouped query instead of a count per doctor; doctors with no
	// appointments are simply absent from the result and score zero volume.
	var rows []struct {
		DoctorID string
		Total    int64
	}
	if err := h.DB.Model(&models.Appointment{}).
		Select("doctor_id, COUNT(*) AS total").
		Where("doctor_id IN ?", ids).
		Group("doctor_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.DoctorID] = r.Total
	}

	scores := reporting.ComputePopularity(doctors, counts)
	for i := range doctors {
		if score, ok := scores[doctors[i].ID]; ok && score != doctors[i].Popularity {
			doctors[i].Popularity = score
			if err := h.DB.Model(&models.Doctor{}).Where("id = ?", doctors[i].ID).Update("popularity", score).Error; err != nil {
				return nil, err
			}
		}
	}

	return doctors, nil
}
