package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditinfo "saasgrid-backend/shared/utils/audit"
)

// tenantID resolves the tenant scope from the X-Tenant-ID header the gateway
// propagates from JWT claims. Writes the error response when missing.
func tenantID(ctx *gin.Context) (uuid.UUID, bool) {
	raw := ctx.GetHeader("X-Tenant-ID")
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing tenant scope",
			"message": "X-Tenant-ID header is required",
			"code":    "VALIDATION_ERROR",
		})
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid tenant scope",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return uuid.Nil, false
	}
	return id, true
}

// actorID resolves the acting user from the X-User-ID header, nil if absent.
func actorID(ctx *gin.Context) *uuid.UUID {
	raw := ctx.GetHeader("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// newAuditInfo builds creation audit info stamped with the acting user.
func newAuditInfo(ctx *gin.Context) auditinfo.Info {
	builder := auditinfo.NewBuilder()
	if actor := actorID(ctx); actor != nil {
		builder = builder.WithCreatedBy(*actor)
	}
	return builder.Build()
}

// parseIDParam parses the :id path parameter, writing the error response on
// failure.
func parseIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid " + name + " ID format",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return uuid.Nil, false
	}
	return id, true
}
