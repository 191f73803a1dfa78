package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/zen-task-api/internal/dto"
	apierrors "github.com/yukikurage/zen-task-api/internal/errors"
	"github.com/yukikurage/zen-task-api/internal/middleware"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/services"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// UpdateRole lets an administrator promote or demote a user
func (h *UserHandler) UpdateRole(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, _ := models.ParseRole(req.Role)
	user, err := h.authService.UpdateRole(c.Request.Context(), principal, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
