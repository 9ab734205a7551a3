package handlers

import (
	"fmt"
	"strconv"

	"medbook-server/internal/middleware"
	"medbook-server/internal/models"
	"medbook-server/internal/scheduling"
	"medbook-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AvailabilityHandler handles doctor availability rule requests.
type AvailabilityHandler struct {
	DB *gorm.DB
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{DB: db}
}

// AvailabilityRequest represents the request body for creating or updating an
// availability rule.
type AvailabilityRequest struct {
	DoctorID  string `json:"doctorId" binding:"required,uuid"`
	DayOfWeek *int   `json:"dayOfWeek" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	IsActive  *bool  `json:"isActive"`
}

// CreateAvailability handles creating a single availability rule for the
// owning doctor or an admin.
func (h *AvailabilityHandler) CreateAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	if !callerManagesDoctor(c, h.DB, req.DoctorID) {
		utils.Forbidden(c, "Doctors can only manage their own availability.")
		return
	}

	rule := models.AvailabilityRule{
		DoctorID:  req.DoctorID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := scheduling.ValidateRule(rule); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.DB.Create(&rule).Error; err != nil {
		utils.InternalServerError(c, "Failed to create availability rule: "+err.Error())
		return
	}

	utils.Created(c, "Availability rule created successfully", rule)
}

// GetAvailabilities handles fetching availability rules. Admins see every
// rule; doctors see only their own.
func (h *AvailabilityHandler) GetAvailabilities(c *gin.Context) {
	query := h.DB.Order("doctor_id, day_of_week, start_time")
	if role, _ := middleware.GetUserRoleFromContext(c); role == models.RoleDoctor {
		userID, _ := middleware.GetUserIDFromContext(c)
		profile, err := doctorProfileForUser(h.DB, userID)
		if err != nil {
			utils.NotFound(c, "No doctor profile exists for this account")
			return
		}
		query = query.Where("doctor_id = ?", profile.ID)
	}

	var rules []models.AvailabilityRule
	if err := query.Find(&rules).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch availability rules: "+err.Error())
		return
	}
	utils.Success(c, "Availability rules fetched successfully", rules)
}

// GetAvailabilityByID handles fetching a single availability rule.
func (h *AvailabilityHandler) GetAvailabilityByID(c *gin.Context) {
	ruleID := c.Param("id")

	var rule models.AvailabilityRule
	if err := h.DB.First(&rule, "id = ?", ruleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Availability rule not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !callerManagesDoctor(c, h.DB, rule.DoctorID) {
		utils.Forbidden(c, "Doctors can only view their own availability rules.")
		return
	}
	utils.Success(c, "Availability rule fetched successfully", rule)
}

// GetAvailabilitiesForDoctor handles fetching a doctor's active availability
// rules, ordered by weekday and start time. An optional ?day=0..6 query
// parameter narrows the result to one weekday.
func (h *AvailabilityHandler) GetAvailabilitiesForDoctor(c *gin.Context) {
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

	query := h.DB.Where("doctor_id = ? AND is_active = ?", doctorID, true)
	if dayStr := c.Query("day"); dayStr != "" {
		day, err := strconv.Atoi(dayStr)
		if err != nil || day < 0 || day > 6 {
			utils.BadRequest(c, "Query parameter 'day' must be between 0 (Sunday) and 6 (Saturday)")
			return
		}
		query = query.Where("day_of_week = ?", day)
	}

	var rules []models.AvailabilityRule
	if err := query.Order("day_of_week, start_time").Find(&rules).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch availability rules: "+err.Error())
		return
	}
	utils.Success(c, "Availability rules fetched successfully", rules)
}

// GetSlotsForDate resolves a doctor's bookable slots for a calendar date. The
// date query parameter is a bare YYYY-MM-DD interpreted as a local date.
func (h *AvailabilityHandler) GetSlotsForDate(c *gin.Context) {
	doctorID := c.Param("id")
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.BadRequest(c, "Query parameter 'date' is required (YYYY-MM-DD)")
		return
	}

	date, err := scheduling.ParseClinicDate(dateStr)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var rules []models.AvailabilityRule
	if err := h.DB.Where("doctor_id = ?", doctorID).Find(&rules).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch availability rules: "+err.Error())
		return
	}

	slots := scheduling.ResolveSlotsForDate(rules, date)
	utils.Success(c, "Slots resolved successfully", gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// UpdateAvailability handles updating an availability rule by ID for the
// owning doctor or an admin.
func (h *AvailabilityHandler) UpdateAvailability(c *gin.Context) {
	ruleID := c.Param("id")

	var req AvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var rule models.AvailabilityRule
	if err := h.DB.First(&rule, "id = ?", ruleID).Error; err != nil {
		utils.NotFound(c, "Availability rule not found")
		return
	}

	if !callerManagesDoctor(c, h.DB, rule.DoctorID) {
		utils.Forbidden(c, "Doctors can only manage their own availability.")
		return
	}

	rule.DayOfWeek = *req.DayOfWeek
	rule.StartTime = req.StartTime
	rule.EndTime = req.EndTime
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := scheduling.ValidateRule(rule); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.DB.Save(&rule).Error; err != nil {
		utils.InternalServerError(c, "Failed to update availability rule: "+err.Error())
		return
	}

	utils.Success(c, "Availability rule updated successfully", rule)
}

// ToggleAvailabilityStatus flips a rule's active flag for the owning doctor
// or an admin. Disabling is the soft-delete path; rules are not removed while
// appointments may refer to their windows.
func (h *AvailabilityHandler) ToggleAvailabilityStatus(c *gin.Context) {
	ruleID := c.Param("id")

	var rule models.AvailabilityRule
	if err := h.DB.First(&rule, "id = ?", ruleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Availability rule not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !callerManagesDoctor(c, h.DB, rule.DoctorID) {
		utils.Forbidden(c, "Doctors can only manage their own availability.")
		return
	}

	rule.IsActive = !rule.IsActive
	if err := h.DB.Save(&rule).Error; err != nil {
		utils.InternalServerError(c, "Failed to update availability rule: "+err.Error())
		return
	}

	utils.Success(c, "Availability rule status updated successfully", rule)
}

// DeleteAvailability handles deleting an availability rule by ID for the
// owning doctor or an admin.
func (h *AvailabilityHandler) DeleteAvailability(c *gin.Context) {
	ruleID := c.Param("id")

	var rule models.AvailabilityRule
	if err := h.DB.First(&rule, "id = ?", ruleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Availability rule not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !callerManagesDoctor(c, h.DB, rule.DoctorID) {
		utils.Forbidden(c, "Doctors can only manage their own availability.")
		return
	}

	if err := h.DB.Delete(&rule).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete availability rule: "+err.Error())
		return
	}

	utils.Success(c, "Availability rule deleted successfully", nil)
}

// BatchSlot is one time window of a batch availability request.
type BatchSlot struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// BatchAvailabilityRequest creates one rule per (day, slot) combination.
type BatchAvailabilityRequest struct {
	DoctorID string      `json:"doctorId" binding:"required,uuid"`
	Days     []int       `json:"days" binding:"required,min=1"`
	Slots    []BatchSlot `json:"slots" binding:"required,min=1"`
}

// BatchItemResult reports the outcome of one rule of a batch insert.
type BatchItemResult struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// BatchAvailabilityResponse summarizes a batch insert. Items fail
// independently; a failure never rolls back the rest.
type BatchAvailabilityResponse struct {
	Requested int               `json:"requested"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

// expandBatch builds the full rule list of a batch request, one rule per
// (day, slot) pair, in day-major order.
func expandBatch(req BatchAvailabilityRequest) []models.AvailabilityRule {
	rules := make([]models.AvailabilityRule, 0, len(req.Days)*len(req.Slots))
	for _, day := range req.Days {
		for _, slot := range req.Slots {
			rules = append(rules, models.AvailabilityRule{
				DoctorID:  req.DoctorID,
				DayOfWeek: day,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				IsActive:  true,
			})
		}
	}
	return rules
}

// summarizeBatch folds per-item results into aggregate counts.
func summarizeBatch(results []BatchItemResult) BatchAvailabilityResponse {
	resp := BatchAvailabilityResponse{Requested: len(results), Results: results}
	for _, r := range results {
		if r.OK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}

// BatchCreateAvailability creates many availability rules in one request,
// e.g. 2 days x 3 windows = 6 rules. Each rule is validated and inserted
// independently and the response reports per-item outcomes with aggregate
// counts ("5 succeeded, 1 failed"), never a total rollback.
func (h *AvailabilityHandler) BatchCreateAvailability(c *gin.Context) {
	var req BatchAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	if !callerManagesDoctor(c, h.DB, req.DoctorID) {
		utils.Forbidden(c, "Doctors can only manage their own availability.")
		return
	}

	rules := expandBatch(req)
	results := make([]BatchItemResult, 0, len(rules))
	for _, rule := range rules {
		item := BatchItemResult{
			DayOfWeek: rule.DayOfWeek,
			StartTime: rule.StartTime,
			EndTime:   rule.EndTime,
		}

		if err := scheduling.ValidateRule(rule); err != nil {
			item.Error = err.Error()
		} else if err := h.DB.Create(&rule).Error; err != nil {
			item.Error = fmt.Sprintf("failed to create rule: %v", err)
		} else {
			item.OK = true
		}
		results = append(results, item)
	}

	resp := summarizeBatch(results)
	utils.Created(c, fmt.Sprintf("%d succeeded, %d failed", resp.Succeeded, resp.Failed), resp)
}
