package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/service"
)

type damageReportRequest struct {
	Description string  `json:"description" binding:"required,min=10,max=500"`
	Severity    string  `json:"severity" binding:"required"`
	ResolvedAt  *string `json:"resolvedAt"`
}

func (r damageReportRequest) toInput() (service.DamageReportInput, bool) {
	severity := domain.Severity(r.Severity)
	if !severity.Valid() {
		return service.DamageReportInput{}, false
	}

	in := service.DamageReportInput{
		Description: r.Description,
		Severity:    severity,
	}
	if r.ResolvedAt != nil {
		t, err := time.Parse(time.RFC3339, *r.ResolvedAt)
		if err != nil {
			return service.DamageReportInput{}, false
		}
		in.ResolvedAt = &t
	}
	return in, true
}

type damageReportResponse struct {
	ID          string  `json:"id"`
	VehicleID   string  `json:"vehicleId"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	ReportedAt  string  `json:"reportedAt"`
	ResolvedAt  *string `json:"resolvedAt"`
}

func damageReportToResponse(report domain.DamageReport) damageReportResponse {
	return damageReportResponse{
		ID:          report.ID,
		VehicleID:   report.VehicleID,
		Description: report.Description,
		Severity:    string(report.Severity),
		ReportedAt:  report.ReportedAt.Format(dateLayout),
		ResolvedAt:  dateString(report.ResolvedAt),
	}
}

func (h *Handler) createDamageReport(c *gin.Context) {
	var req damageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid damage report data"})
		return
	}
	in, ok := req.toInput()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid damage report data"})
		return
	}

	report, err := h.damage.Create(c.Request.Context(), userID(c), c.Param("id"), in)
	if err != nil {
		h.respondDamageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, damageReportToResponse(*report))
}

func (h *Handler) listDamageReports(c *gin.Context) {
	reports, err := h.damage.ListByVehicle(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.respondDamageError(c, err)
		return
	}

	resp := make([]damageReportResponse, len(reports))
	for i := range reports {
		resp[i] = damageReportToResponse(reports[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateDamageReport(c *gin.Context) {
	var req damageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid damage report data"})
		return
	}
	in, ok := req.toInput()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid damage report data"})
		return
	}

	report, err := h.damage.Update(c.Request.Context(), userID(c), c.Param("reportId"), in)
	if err != nil {
		h.respondDamageError(c, err)
		return
	}
	c.JSON(http.StatusOK, damageReportToResponse(*report))
}

func (h *Handler) deleteDamageReport(c *gin.Context) {
	if err := h.damage.Delete(c.Request.Context(), userID(c), c.Param("reportId")); err != nil {
		h.respondDamageError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addDamagePhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.internalError(c, err)
		return
	}
	defer src.Close()

	key, err := h.damage.AddPhoto(
		c.Request.Context(),
		userID(c),
		c.Param("reportId"),
		file.Filename,
		file.Header.Get("Content-Type"),
		src,
	)
	if err != nil {
		h.respondDamageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *Handler) listDamagePhotos(c *gin.Context) {
	photos, err := h.damage.ListPhotos(c.Request.Context(), userID(c), c.Param("reportId"))
	if err != nil {
		h.respondDamageError(c, err)
		return
	}

	resp := make([]gin.H, len(photos))
	for i, photo := range photos {
		resp[i] = gin.H{"key": photo.Key, "size": photo.Size, "url": photo.URL}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) respondDamageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
	case errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Damage report not found"})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage not configured"})
	default:
		h.internalError(c, err)
	}
}
