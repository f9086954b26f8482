package http

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/service"
)

// plateRegex matches Italian license plates.
var plateRegex = regexp.MustCompile(`^([A-Z]{2}[\s-]?[0-9]{3}[\s-]?[A-Z]{2}|[A-Z]{2}[\s-]?[0-9]{4}[A-Z]{2})$`)

type createVehicleRequest struct {
	Plate              string `json:"plate" binding:"required"`
	Type               string `json:"type" binding:"required"`
	InsuranceInterval  *int   `json:"insuranceInterval" binding:"omitempty,gt=0"`
	TaxInterval        *int   `json:"taxInterval" binding:"omitempty,gt=0"`
	LastInsurancePaid  string `json:"lastInsurancePaid" binding:"required"`
	LastTaxPaid        string `json:"lastTaxPaid" binding:"required"`
	LastInspectionPaid string `json:"lastInspectionPaid" binding:"omitempty"`
}

type vehicleStatusResponse struct {
	Insurance  string `json:"insurance"`
	Tax        string `json:"tax"`
	Inspection string `json:"inspection"`
}

type vehicleResponse struct {
	ID                string                `json:"id"`
	PlateNumber       string                `json:"plateNumber"`
	Type              string                `json:"type"`
	InsuranceInterval *int                  `json:"insuranceInterval,omitempty"`
	TaxInterval       *int                  `json:"taxInterval,omitempty"`
	InsuranceDue      *string               `json:"insuranceDue"`
	TaxDue            *string               `json:"taxDue"`
	InspectionDue     *string               `json:"inspectionDue"`
	Status            vehicleStatusResponse `json:"status"`
}

func vehicleToResponse(view service.VehicleView) vehicleResponse {
	return vehicleResponse{
		ID:                view.ID,
		PlateNumber:       view.PlateNumber,
		Type:              string(view.Type),
		InsuranceInterval: view.InsuranceInterval,
		TaxInterval:       view.TaxInterval,
		InsuranceDue:      dateString(view.InsuranceDue),
		TaxDue:            dateString(view.TaxDue),
		InspectionDue:     dateString(view.InspectionDue),
		Status: vehicleStatusResponse{
			Insurance:  string(view.Status.Insurance),
			Tax:        string(view.Status.Tax),
			Inspection: string(view.Status.Inspection),
		},
	}
}

func (h *Handler) createVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle data"})
		return
	}
	if !plateRegex.MatchString(req.Plate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle data"})
		return
	}
	vehicleType := domain.VehicleType(req.Type)
	if !vehicleType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle type"})
		return
	}

	lastInsurance, err := time.Parse(dateLayout, req.LastInsurancePaid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle data"})
		return
	}
	lastTax, err := time.Parse(dateLayout, req.LastTaxPaid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle data"})
		return
	}
	var lastInspection *time.Time
	if req.LastInspectionPaid != "" {
		t, err := time.Parse(dateLayout, req.LastInspectionPaid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle data"})
			return
		}
		lastInspection = &t
	}

	view, err := h.vehicles.Create(c.Request.Context(), userID(c), service.CreateVehicleInput{
		Plate:              req.Plate,
		Type:               vehicleType,
		InsuranceInterval:  req.InsuranceInterval,
		TaxInterval:        req.TaxInterval,
		LastInsurancePaid:  lastInsurance,
		LastTaxPaid:        lastTax,
		LastInspectionPaid: lastInspection,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicleToResponse(*view))
}

func (h *Handler) listVehicles(c *gin.Context) {
	views, err := h.vehicles.List(c.Request.Context(), userID(c))
	if err != nil {
		h.internalError(c, err)
		return
	}

	resp := make([]vehicleResponse, len(views))
	for i := range views {
		resp[i] = vehicleToResponse(views[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getVehicle(c *gin.Context) {
	view, err := h.vehicles.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.respondVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicleToResponse(*view))
}

type updateVehicleRequest struct {
	Plate             *string `json:"plate"`
	Type              *string `json:"type"`
	InsuranceInterval *int    `json:"insuranceInterval" binding:"omitempty,gt=0"`
	TaxInterval       *int    `json:"taxInterval" binding:"omitempty,gt=0"`
}

func (h *Handler) updateVehicle(c *gin.Context) {
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle data"})
		return
	}
	if req.Plate != nil && !plateRegex.MatchString(*req.Plate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle data"})
		return
	}

	in := service.UpdateVehicleInput{
		Plate:             req.Plate,
		InsuranceInterval: req.InsuranceInterval,
		TaxInterval:       req.TaxInterval,
	}
	if req.Type != nil {
		vehicleType := domain.VehicleType(*req.Type)
		if !vehicleType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle type"})
			return
		}
		in.Type = &vehicleType
	}

	view, err := h.vehicles.Update(c.Request.Context(), userID(c), c.Param("id"), in)
	if err != nil {
		h.respondVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicleToResponse(*view))
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	if err := h.vehicles.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.respondVehicleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondVehicleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		h.internalError(c, err)
	}
}
