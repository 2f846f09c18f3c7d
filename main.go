package main

import (
	"github.com/mathquest/mathquest/config"
	"github.com/mathquest/mathquest/models"
	"github.com/mathquest/mathquest/routes"
	"github.com/mathquest/mathquest/streak"
	"github.com/mathquest/mathquest/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.LoginEvent{},
		&models.Game{},
		&models.GameScore{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.PageView{},
	)

	if err := models.SeedCatalog(db); err != nil {
		utils.Sugar.Fatalf("failed to seed catalog: %v", err)
	}

	tiers := make(streak.TierTable, 0, len(cfg.StreakTiers))
	for _, t := range cfg.StreakTiers {
		tiers = append(tiers, streak.Tier{MinStreak: t.MinStreak, Multiplier: t.Multiplier})
	}
	engine, err := streak.NewEngine(streak.NewGormStore(db), tiers, cfg.StreakLookbackDays)
	if err != nil {
		utils.Sugar.Fatalf("invalid streak configuration: %v", err)
	}

	r := routes.SetupRouter(db, engine)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
