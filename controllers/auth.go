package controllers

import (
	"net/http"

	"fleetcare-backend/logger"
	"fleetcare-backend/services"
	"fleetcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
	log  *logger.Logger
}

func NewAuthController(auth *services.AuthService, baseLog *logger.Logger) *AuthController {
	return &AuthController{auth: auth, log: baseLog.With("controller", "auth")}
}

// Login exchanges credentials for a signed bearer token.
func (ctrl *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := ctrl.auth.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me echoes the authenticated subject and role from the validated token.
func (ctrl *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": c.GetString(utils.ContextUsername),
		"role":     c.GetString(utils.ContextRole),
	})
}
