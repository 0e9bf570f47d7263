package controllers

import (
	"errors"
	"net/http"

	"fleetcare-backend/apperr"
	"fleetcare-backend/logger"
	"fleetcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// respondError translates service errors into the JSON envelope. Unexpected
// failures are logged in full server-side and surfaced to the caller only as
// a generic message plus the correlation id.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	ae := apperr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error("unexpected error",
			"path", c.Request.URL.Path, "correlationId", utils.CorrelationID(c), "error", err)
		utils.RespondWithError(c, ae.Status, ae.Code, "An unexpected error occurred")
		return
	}

	log.Warn("request rejected",
		"code", ae.Code, "path", c.Request.URL.Path, "error", ae.Error())
	utils.RespondWithError(c, ae.Status, ae.Code, ae.Error())
}

// respondBindingError reports payload validation failures as a structured
// list of per-field violations.
func respondBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		violations := make([]utils.ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, utils.ValidationError{
				Field:         fe.Field(),
				RejectedValue: fe.Value(),
				Message:       bindingMessage(fe),
			})
		}
		utils.RespondWithValidationErrors(c, http.StatusBadRequest,
			apperr.CodeValidation, "Request validation failed", violations)
		return
	}
	utils.RespondWithError(c, http.StatusBadRequest, apperr.CodeValidation, "Request validation failed")
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "len":
		return fe.Field() + " must be exactly " + fe.Param() + " characters"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// parseID reads a uuid path parameter, responding 400 on malformed input.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, apperr.CodeBadRequest, "Invalid identifier format")
		return uuid.Nil, false
	}
	return id, true
}
