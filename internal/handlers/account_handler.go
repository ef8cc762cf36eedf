package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sendiab_backend/internal/services"
)

type AccountHandler struct {
	*BaseHandler
	accountService services.AccountService
}

func NewAccountHandler(base *BaseHandler, accountService services.AccountService) *AccountHandler {
	return &AccountHandler{
		BaseHandler:    base,
		accountService: accountService,
	}
}

// Me returns the authenticated account with derived quota figures.
func (h *AccountHandler) Me(c *gin.Context) {
	accountID, ok := h.GetAndAuthorizeAccountID(c)
	if !ok {
		return
	}

	info, err := h.accountService.Info(accountID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// Plans lists the purchasable license plans.
func (h *AccountHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.accountService.Plans()})
}
