package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mathquest/mathquest/models"
	"github.com/mathquest/mathquest/utils"
)

// StatsController provides platform statistics and the points leaderboard.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate platform statistics. Individual counters fall
// back to 0 so one broken table never blanks the dashboard.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var gameCount int64
	var playCount int64
	var dailyActive int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}
	if err := s.db.Model(&models.Game{}).Where("enabled = ?", true).Count(&gameCount).Error; err != nil {
		gameCount = 0
	}
	if err := s.db.Model(&models.GameScore{}).Count(&playCount).Error; err != nil {
		playCount = 0
	}

	// Daily active is PV-based. String date equality avoids timezone and
	// type mismatches with the DATE column.
	today := time.Now().UTC().Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyActive).Error; err != nil {
		dailyActive = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":         userCount,
		"game_count":         gameCount,
		"play_count":         playCount,
		"daily_active_count": dailyActive,
	})
}

// GetLeaderboard returns the top users by total points, cached for a minute
// so the landing page cannot hammer the users table.
func (s *StatsController) GetLeaderboard(ctx *gin.Context) {
	limit := 20
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	cacheKey := "cache:leaderboard:" + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var users []models.User
	if err := s.db.Order("points DESC, id ASC").Limit(limit).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load leaderboard")
		return
	}

	entries := make([]gin.H, 0, len(users))
	for i, u := range users {
		entries = append(entries, gin.H{
			"rank":       i + 1,
			"user_id":    u.ID,
			"username":   u.Username,
			"avatar_url": u.AvatarURL,
			"points":     u.Points,
		})
	}

	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: entries}, time.Minute)
	utils.Success(ctx, entries)
}

// GetGameStats returns play counts and score aggregates for one game.
func (s *StatsController) GetGameStats(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	var game models.Game
	if err := s.db.Where("slug = ?", slug).First(&game).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40470, "game not found")
		return
	}

	var plays int64
	var bestFinal int64
	if err := s.db.Model(&models.GameScore{}).Where("game_id = ?", game.ID).Count(&plays).Error; err != nil {
		plays = 0
	}
	if err := s.db.Model(&models.GameScore{}).Where("game_id = ?", game.ID).
		Select("COALESCE(MAX(final_score),0)").Scan(&bestFinal).Error; err != nil {
		bestFinal = 0
	}

	utils.Success(ctx, gin.H{
		"slug":             game.Slug,
		"play_count":       plays,
		"best_final_score": bestFinal,
	})
}
