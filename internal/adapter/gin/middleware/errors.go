package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/pkg/apperror"
)

// ErrorHandler is the single terminal classification stage. Handlers attach
// failures with c.Error; after the chain runs, the last recorded error is
// matched against the taxonomy variants in precedence order and rendered as
// exactly one of the four wire envelopes. Pure classification: no retries,
// no state across calls.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		log.Warn("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			errs := appErr.Errs
			if errs == nil {
				errs = []string{}
			}
			c.JSON(appErr.Status, gin.H{
				"success": false,
				"status":  "Error",
				"message": appErr.Message,
				"field":   nullableField(appErr.Field),
				"code":    appErr.Code,
				"errors":  errs,
			})
			return
		}

		var schemaErr *apperror.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "VALIDATION ERROR",
				"errors":  schemaErr.Messages,
			})
			return
		}

		var dupErr *apperror.DuplicateKeyError
		if errors.As(err, &dupErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": dupErr.Message(),
				"field":   dupErr.Field,
				"value":   dupErr.Value,
				"code":    dupErr.Code(),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"status":  "Unknown error",
			"message": "INTERNAL SERVER ERROR!",
			"error":   err.Error(),
		})
	}
}

// nullableField keeps the wire shape of errors without an offending field:
// null rather than an empty string.
func nullableField(field string) any {
	if field == "" {
		return nil
	}
	return field
}
