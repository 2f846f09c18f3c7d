package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mathquest/mathquest/models"
	"github.com/mathquest/mathquest/streak"
	"github.com/mathquest/mathquest/utils"
)

// GameController serves the mini-game catalog and score submission.
type GameController struct {
	db     *gorm.DB
	engine *streak.Engine
}

// NewGameController creates a GameController.
func NewGameController(db *gorm.DB, engine *streak.Engine) *GameController {
	return &GameController{db: db, engine: engine}
}

// ListGames returns the enabled game catalog, cached for ten minutes.
func (g *GameController) ListGames(ctx *gin.Context) {
	const cacheKey = "cache:games:list"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var games []models.Game
	if err := g.db.Where("enabled = ?", true).Order("id ASC").Find(&games).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list games")
		return
	}

	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: games}, 10*time.Minute)
	utils.Success(ctx, games)
}

// GetGame returns one game by slug.
func (g *GameController) GetGame(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	var game models.Game
	if err := g.db.Where("slug = ? AND enabled = ?", slug, true).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40470, "game not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to get game")
		return
	}
	utils.Success(ctx, game)
}

// SubmitScore records one scored play. The streak multiplier is resolved
// once per submission and applied to the base score; the same multiplier
// also scales any achievement payouts granted by this play. A submission
// fails outright when the streak state cannot be resolved rather than
// silently falling back to 1.0.
func (g *GameController) SubmitScore(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	slug := strings.TrimSpace(ctx.Param("slug"))
	var game models.Game
	if err := g.db.Where("slug = ? AND enabled = ?", slug, true).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40470, "game not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to get game")
		return
	}

	var req struct {
		BaseScore int64 `json:"base_score" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40071, "invalid request payload")
		return
	}
	if req.BaseScore > game.MaxBaseScore {
		utils.Error(ctx, http.StatusBadRequest, 40072, "base score exceeds game maximum")
		return
	}

	state, err := g.engine.Resolve(ctx.Request.Context(), userID, time.Now())
	if err != nil {
		if errors.Is(err, streak.ErrEventLog) {
			utils.Sugar.Errorf("score submit blocked, streak unavailable user=%d err=%v", userID, err)
			utils.Error(ctx, http.StatusServiceUnavailable, 50310, "score submission temporarily unavailable")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "internal server error")
		return
	}

	finalScore := streak.ApplyMultiplier(req.BaseScore, state.Multiplier)
	score := models.GameScore{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		GameID:     game.ID,
		BaseScore:  req.BaseScore,
		Multiplier: state.Multiplier,
		FinalScore: finalScore,
	}

	var granted []models.UserAchievement
	err = g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&score).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", finalScore)).Error; err != nil {
			return err
		}
		var err error
		granted, err = grantAchievements(tx, userID, state)
		return err
	})
	if err != nil {
		utils.Sugar.Errorf("score submit failed user=%d game=%s err=%v", userID, slug, err)
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to record score")
		return
	}

	utils.Success(ctx, gin.H{
		"session_id":   score.SessionID,
		"base_score":   score.BaseScore,
		"multiplier":   score.Multiplier,
		"final_score":  score.FinalScore,
		"streak":       state,
		"achievements": granted,
	})
}

// grantAchievements awards any badges the user now qualifies for. The unique
// (user_id, achievement_id) index makes the grant idempotent under
// concurrent submissions; only rows this call actually inserted pay out.
func grantAchievements(tx *gorm.DB, userID uint, state streak.State) ([]models.UserAchievement, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var defs []models.Achievement
	if err := tx.Find(&defs).Error; err != nil {
		return nil, err
	}

	granted := make([]models.UserAchievement, 0)
	for _, def := range defs {
		qualified := false
		switch def.Kind {
		case models.AchievementKindPoints:
			qualified = user.Points >= def.Threshold
		case models.AchievementKindStreak:
			qualified = int64(state.CurrentStreak) >= def.Threshold
		}
		if !qualified {
			continue
		}

		award := streak.ApplyMultiplier(def.RewardPoints, state.Multiplier)
		ua := models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			AwardedPoints: award,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).Create(&ua)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		if award > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("points", gorm.Expr("points + ?", award)).Error; err != nil {
				return nil, err
			}
		}
		ua.Achievement = def
		granted = append(granted, ua)
	}
	return granted, nil
}

// MyScores returns the authenticated user's recent plays, newest first.
func (g *GameController) MyScores(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	page, pageSize := 1, 20
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	var total int64
	if err := g.db.Model(&models.GameScore{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to count scores")
		return
	}

	var scores []models.GameScore
	if err := g.db.Preload("Game").Where("user_id = ?", userID).
		Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&scores).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to list scores")
		return
	}

	utils.Success(ctx, gin.H{
		"items": scores,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// MyAchievements returns the badges the authenticated user has earned.
func (g *GameController) MyAchievements(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var earned []models.UserAchievement
	if err := g.db.Preload("Achievement").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&earned).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to list achievements")
		return
	}
	utils.Success(ctx, earned)
}
