package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sendiab_backend/internal/middleware"
	"sendiab_backend/internal/services"
	"sendiab_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Session reports who the presented token belongs to. A stale token is
// not an error; it reports logged_in=false.
func (h *AuthHandler) Session(c *gin.Context) {
	response, err := h.authService.Session(middleware.GetAccountID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
