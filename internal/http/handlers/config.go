package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/brightlines/interference-tracker/internal/http/response"
)

// ConfigHandler exposes the static presentation tokens the dashboard
// frontend reads at boot.
type ConfigHandler struct{}

func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

// GET /api/config
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"colors": gin.H{
			"primary":   "#cf2e2e",
			"ta_russia": "#0d47a1",
			"ta_china":  "#8b0000",
		},
		"actor_palette": gin.H{
			"Russia":  "#0d47a1",
			"China":   "#8b0000",
			"Iran":    "#2e7d32",
			"Other":   "#6d4c41",
			"Unknown": "#616161",
		},
	})
}
