package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/zen-task-api/internal/auth"
	apierrors "github.com/yukikurage/zen-task-api/internal/errors"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/services"
)

// respondError maps every error kind the services raise to one status
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var violation *models.RuleViolation

	switch {
	case errors.As(err, &validationErr):
		apierrors.ValidationFailed(c, validationErr.Message, validationErr.Fields)
	case errors.As(err, &violation):
		apierrors.BusinessRuleViolation(c, violation.Message, violation.Field)
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmptySuggestionText):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUserConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrForbiddenAccess),
		errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAuthenticationFailed):
		apierrors.AuthenticationFailed(c, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		apierrors.InvalidToken(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksSuggested):
		apierrors.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
