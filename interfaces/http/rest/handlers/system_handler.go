package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mindmapper/infrastructure/config"
	"mindmapper/pkg/common"
)

// SystemHandler exposes runtime settings to clients
type SystemHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cfg *config.Config, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// Settings handles GET /settings
func (h *SystemHandler) Settings(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"autosaveEnabled":     h.cfg.AutosaveEnabled,
		"backupRetentionDays": h.cfg.BackupRetentionDays,
		"scoringProfile":      h.cfg.ScoringProfile,
		"defaultLanguage":     h.cfg.DefaultLanguage,
		"environment":         h.cfg.Environment,
	})
}
