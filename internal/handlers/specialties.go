package handlers

import (
	"medbook-server/internal/models"
	"medbook-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SpecialtyHandler handles medical specialty requests.
type SpecialtyHandler struct {
	DB *gorm.DB
}

// NewSpecialtyHandler creates a new SpecialtyHandler.
func NewSpecialtyHandler(db *gorm.DB) *SpecialtyHandler {
	return &SpecialtyHandler{DB: db}
}

// SpecialtyRequest represents the request body for creating or updating a specialty.
type SpecialtyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateSpecialty handles creating a new specialty (admin).
func (h *SpecialtyHandler) CreateSpecialty(c *gin.Context) {
	var req SpecialtyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Specialty
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Specialty with this name already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	specialty := models.Specialty{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.DB.Create(&specialty).Error; err != nil {
		utils.InternalServerError(c, "Failed to create specialty: "+err.Error())
		return
	}

	utils.Created(c, "Specialty created successfully", specialty)
}

// GetSpecialties handles fetching all specialties.
func (h *SpecialtyHandler) GetSpecialties(c *gin.Context) {
	var specialties []models.Specialty
	if err := h.DB.Order("name asc").Find(&specialties).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch specialties: "+err.Error())
		return
	}
	utils.Success(c, "Specialties fetched successfully", specialties)
}

// GetSpecialtyByID handles fetching a single specialty by ID.
func (h *SpecialtyHandler) GetSpecialtyByID(c *gin.Context) {
	specialtyID := c.Param("id")

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", specialtyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Specialty not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Specialty fetched successfully", specialty)
}

// UpdateSpecialty handles updating a specialty by ID (admin).
func (h *SpecialtyHandler) UpdateSpecialty(c *gin.Context) {
	specialtyID := c.Param("id")

	var req SpecialtyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", specialtyID).Error; err != nil {
		utils.NotFound(c, "Specialty not found")
		return
	}

	specialty.Name = req.Name
	specialty.Description = req.Description

	if err := h.DB.Save(&specialty).Error; err != nil {
		utils.InternalServerError(c, "Failed to update specialty: "+err.Error())
		return
	}

	utils.Success(c, "Specialty updated successfully", specialty)
}

// DeleteSpecialty handles deleting a specialty by ID (admin).
func (h *SpecialtyHandler) DeleteSpecialty(c *gin.Context) {
	specialtyID := c.Param("id")

	var specialty models.Specialty
	if err := h.DB.First(&specialty, "id = ?", specialtyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Specialty not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	// Specialties with doctors attached cannot be removed.
	var doctorCount int64
	if err := h.DB.Model(&models.Doctor{}).Where("specialty_id = ?", specialtyID).Count(&doctorCount).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if doctorCount > 0 {
		utils.BadRequest(c, "Cannot delete a specialty that still has doctors assigned")
		return
	}

	if err := h.DB.Delete(&specialty).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete specialty: "+err.Error())
		return
	}

	utils.Success(c, "Specialty deleted successfully", nil)
}
