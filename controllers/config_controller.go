package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mathquest/mathquest/streak"
	"github.com/mathquest/mathquest/utils"
)

// ConfigController exposes read-only runtime configuration to the client.
type ConfigController struct {
	engine *streak.Engine
}

func NewConfigController(engine *streak.Engine) *ConfigController {
	return &ConfigController{engine: engine}
}

// GetTiers returns the active multiplier ladder so the client can render
// progress toward the next bonus without hardcoding thresholds.
func (c *ConfigController) GetTiers(ctx *gin.Context) {
	tiers := c.engine.Tiers()
	out := make([]gin.H, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, gin.H{
			"min_streak": t.MinStreak,
			"multiplier": t.Multiplier,
		})
	}
	utils.Success(ctx, out)
}
