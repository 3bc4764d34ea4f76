package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menuca/menuca-backend/internal/app/service"
	apperrors "github.com/menuca/menuca-backend/internal/errors"
	"github.com/menuca/menuca-backend/internal/middleware"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// ListUsers returns every account, administrators only
// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.adminService.ListUsers()
	if err != nil {
		log.Error("Failed to list users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
