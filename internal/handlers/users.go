package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/backend/internal/util"
)

// GetMe returns the authenticated viewer's profile
func (h *Handlers) GetMe(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	profile, err := h.repo.GetProfile(c.Request.Context(), userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.RespondSuccess(c, http.StatusOK, profile)
}
