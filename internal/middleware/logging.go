// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/models"
)

// Request fields that must never land in an audit row. Agents post
// passwords and card tokens through this API.
var redactedFields = map[string]bool{
	"password":        true,
	"currentPassword": true,
	"newPassword":     true,
	"refreshToken":    true,
	"paymentMethodId": true,
}

// AuditLogMiddleware records every mutating request as an AuditLog row.
// Reads and health checks are not audited. The row is written
// asynchronously so a slow audit table never delays the response.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		var userUUID *uuid.UUID
		if raw, exists := c.Get("user_id"); exists {
			if uid, ok := raw.(string); ok {
				if parsed, err := uuid.Parse(uid); err == nil {
					userUUID = &parsed
				}
			}
		}

		var requestData map[string]interface{}
		if len(requestBody) > 0 {
			if err := json.Unmarshal(requestBody, &requestData); err == nil {
				for field := range requestData {
					if redactedFields[field] {
						requestData[field] = "[redacted]"
					}
				}
			}
		}

		entry := &models.AuditLog{
			UserID:       userUUID,
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: resourceTypeFromPath(c.Request.URL.Path),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			NewValues:    models.JSONB(requestData),
		}
		if id := resourceIDFromPath(c.Request.URL.Path); id != nil {
			entry.ResourceID = id
		}

		go func() {
			if err := db.Create(entry).Error; err != nil {
				logrus.WithError(err).Error("Failed to write audit log")
			}
		}()
	}
}

// resourceTypeFromPath maps /v1/<resource>/... to the audited resource
// name, collapsing the admin prefix so admin and agent actions on the
// same resource group together.
func resourceTypeFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "v1" {
		if parts[1] == "admin" && len(parts) >= 3 {
			return parts[2]
		}
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func resourceIDFromPath(path string) *uuid.UUID {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if parsed, err := uuid.Parse(part); err == nil {
			return &parsed
		}
	}
	return nil
}

// RequestLogger replaces gin's default logger with structured logrus
// output so request lines and application logs share one format.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Milliseconds(),
			"ip":       c.ClientIP(),
		}
		if userID, exists := c.Get("user_id"); exists {
			fields["user_id"] = userID
		}

		if c.Writer.Status() >= 500 {
			logrus.WithFields(fields).Error("Request failed")
		} else {
			logrus.WithFields(fields).Info("Request processed")
		}
	}
}
