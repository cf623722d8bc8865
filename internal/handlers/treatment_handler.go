package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medivault/medivault-api/internal/middleware"
	"github.com/medivault/medivault-api/internal/models"
	"github.com/medivault/medivault-api/internal/store"
	"github.com/medivault/medivault-api/internal/utils"
)

// CreateTreatmentRequest opens a treatment record against a patient,
// identified by Aadhar number.
type CreateTreatmentRequest struct {
	AadharNumber string `json:"AadharNumber" binding:"required"`
	Disease      string `json:"Disease" binding:"required"`
	Remarks      string `json:"Remarks"`
}

// AddReportRequest attaches already-uploaded report and prescription files
// to a treatment. The files themselves live in the external object store;
// only their references are recorded here.
type AddReportRequest struct {
	TreatmentID   string              `json:"TreatmentId" binding:"required"`
	Reports       []models.ReportFile `json:"reports"`
	Prescriptions []models.ReportFile `json:"prescriptions"`
}

// CreateTreatment records a new treatment. Doctor-only (enforced by the
// route's role gate).
func (h *Handler) CreateTreatment(c *gin.Context) {
	var req CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Aadhar number and Disease are required"))
		return
	}

	doctor, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Unauthorized"))
		return
	}

	patient, err := h.Identities.FindByAadhar(c.Request.Context(), models.RolePatient, req.AadharNumber)
	if err != nil {
		if err == store.ErrNotFound {
			utils.Fail(c, utils.NotFound("No patient registered with this Aadhar number"))
			return
		}
		utils.Fail(c, err)
		return
	}

	treatment, err := h.Treatments.Insert(c.Request.Context(), &models.Treatment{
		PatientID:     patient.ID,
		PatientAadhar: patient.AadharNumber,
		PatientName:   patient.Name,
		DoctorID:      doctor.ID,
		DoctorName:    doctor.Name,
		Disease:       req.Disease,
		Remarks:       req.Remarks,
		Status:        models.TreatmentOngoing,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.Notifier.SendTreatmentRecordedSMS(patient, treatment)

	utils.Respond(c, http.StatusCreated, "Treatment created successfully", treatment)
}

// GetPatientDetails returns a patient's profile and treatment history for a
// doctor, looked up by Aadhar number.
func (h *Handler) GetPatientDetails(c *gin.Context) {
	aadhar := c.Query("AadharNumber")
	if aadhar == "" {
		utils.Fail(c, utils.BadRequest("Aadhar number is required"))
		return
	}

	patient, err := h.Identities.FindByAadhar(c.Request.Context(), models.RolePatient, aadhar)
	if err != nil {
		if err == store.ErrNotFound {
			utils.Fail(c, utils.NotFound("No patient registered with this Aadhar number"))
			return
		}
		utils.Fail(c, err)
		return
	}

	treatments, err := h.Treatments.FindByPatientAadhar(c.Request.Context(), aadhar)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "Patient details fetched", gin.H{
		"patient":    patient.Sanitized(),
		"treatments": treatments,
	})
}

// AddReport appends report and prescription file references to a treatment.
func (h *Handler) AddReport(c *gin.Context) {
	var req AddReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Treatment id is required"))
		return
	}
	if len(req.Reports) == 0 && len(req.Prescriptions) == 0 {
		utils.Fail(c, utils.BadRequest("At least one report or prescription is required"))
		return
	}

	if err := h.Treatments.AppendFiles(c.Request.Context(), req.TreatmentID, req.Reports, req.Prescriptions); err != nil {
		if err == store.ErrNotFound {
			utils.Fail(c, utils.NotFound("Treatment not found"))
			return
		}
		utils.Fail(c, err)
		return
	}

	treatment, err := h.Treatments.FindByID(c.Request.Context(), req.TreatmentID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "Reports added successfully", treatment)
}

// GetTreatmentDetails returns a single treatment by id.
func (h *Handler) GetTreatmentDetails(c *gin.Context) {
	treatment, err := h.Treatments.FindByID(c.Request.Context(), c.Param("treatmentId"))
	if err != nil {
		if err == store.ErrNotFound {
			utils.Fail(c, utils.NotFound("Treatment not found"))
			return
		}
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "Treatment details fetched", treatment)
}
