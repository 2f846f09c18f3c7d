package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mathquest/mathquest/models"
	"github.com/mathquest/mathquest/streak"
	"github.com/mathquest/mathquest/utils"
)

// StreakController exposes the daily check-in and streak status endpoints.
// All streak math lives in the streak package; this layer verifies the
// account still exists and maps results and failures onto the HTTP envelope.
type StreakController struct {
	db     *gorm.DB
	engine *streak.Engine
}

// NewStreakController creates a StreakController.
func NewStreakController(db *gorm.DB, engine *streak.Engine) *StreakController {
	return &StreakController{db: db, engine: engine}
}

// userExists reports whether the account row is still present. A valid JWT
// can outlive a deleted account, so the event log must never be written for
// a user who no longer exists.
func (s *StreakController) userExists(ctx *gin.Context, userID uint) (bool, error) {
	if s.db == nil {
		return true, nil
	}
	var count int64
	err := s.db.WithContext(ctx.Request.Context()).
		Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

// DailyCheckIn records today's login event and returns the resulting streak
// state. Calling it again on the same UTC day is a no-op that returns the
// same state. When the event log is unreachable the request fails; no
// default multiplier is ever served from this endpoint.
func (s *StreakController) DailyCheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	exists, err := s.userExists(ctx, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "internal server error")
		return
	}
	if !exists {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	state, err := s.engine.EnsureCheckIn(ctx.Request.Context(), userID, time.Now())
	if err != nil {
		s.writeStreakError(ctx, userID, err)
		return
	}

	utils.Success(ctx, state)
}

// Status returns the current streak state without recording a check-in.
func (s *StreakController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	state, err := s.engine.Resolve(ctx.Request.Context(), userID, time.Now())
	if err != nil {
		s.writeStreakError(ctx, userID, err)
		return
	}

	utils.Success(ctx, state)
}

func (s *StreakController) writeStreakError(ctx *gin.Context, userID uint, err error) {
	switch {
	case errors.Is(err, streak.ErrInvalidUser):
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
	case errors.Is(err, streak.ErrEventLog):
		utils.Sugar.Errorf("streak operation unavailable user=%d err=%v", userID, err)
		utils.Error(ctx, http.StatusServiceUnavailable, 50310, "check-in temporarily unavailable, please retry")
	default:
		utils.Sugar.Errorf("streak operation failed user=%d err=%v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "internal server error")
	}
}
