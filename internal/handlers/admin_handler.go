package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sendiab_backend/internal/services"
	"sendiab_backend/internal/services/dto"
)

type AdminHandler struct {
	*BaseHandler
	accountService services.AccountService
}

func NewAdminHandler(base *BaseHandler, accountService services.AccountService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		accountService: accountService,
	}
}

// CreateAccount provisions a practitioner license. The response carries
// the generated secret; it is shown exactly once.
func (h *AdminHandler) CreateAccount(c *gin.Context) {
	var req dto.AdminCreateAccountRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	credentials, err := h.accountService.AdminCreate(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, credentials)
}

func (h *AdminHandler) ListAccounts(c *gin.Context) {
	accounts := h.accountService.AdminList()
	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.accountService.AdminStats())
}
