package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vehicletrack/internal/service"
	"vehicletrack/internal/token"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	vehicles service.VehicleService
	damage   service.DamageService
	share    service.ShareService
	settings service.SettingsService
	tokens   *token.Issuer
	logger   *logrus.Logger
}

func NewHandler(
	auth service.AuthService,
	vehicles service.VehicleService,
	damage service.DamageService,
	share service.ShareService,
	settings service.SettingsService,
	tokens *token.Issuer,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		vehicles: vehicles,
		damage:   damage,
		share:    share,
		settings: settings,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.signup)
		auth.POST("/request-otp", h.requestOTP)
		auth.POST("/2fa/verify", h.verifyOTP)
		auth.POST("/login", h.login)
	}

	authed := router.Group("/", authRequired(h.tokens))
	{
		authed.POST("/vehicles", h.createVehicle)
		authed.GET("/vehicles", h.listVehicles)
		authed.GET("/vehicles/:id", h.getVehicle)
		authed.PUT("/vehicles/:id", h.updateVehicle)
		authed.DELETE("/vehicles/:id", h.deleteVehicle)

		authed.POST("/vehicles/:id/damage-reports", h.createDamageReport)
		authed.GET("/vehicles/:id/damage-reports", h.listDamageReports)
		authed.PUT("/damage-reports/:reportId", h.updateDamageReport)
		authed.DELETE("/damage-reports/:reportId", h.deleteDamageReport)
		authed.POST("/damage-reports/:reportId/photos", h.addDamagePhoto)
		authed.GET("/damage-reports/:reportId/photos", h.listDamagePhotos)

		authed.POST("/share/generate", h.generateShareLink)
		authed.GET("/share", h.listShareLinks)
		authed.DELETE("/share/:token", h.revokeShareLink)

		authed.GET("/settings", h.getSettings)
		authed.PUT("/settings", h.updateSettings)
	}

	// public: expired links still resolve, flagged as expired
	router.GET("/share/:token", h.resolveShareLink)

	router.GET("/api-docs", h.docsPage)
	router.GET("/api-docs/openapi.yaml", h.docsSpec)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// internalError logs the cause and answers with a generic 500. Details never
// reach the client.
func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.WithError(err).Errorf("%s %s", c.Request.Method, c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

const dateLayout = "2006-01-02"

func dateString(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Format(dateLayout)
	return &v
}
