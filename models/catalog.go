package models

import "gorm.io/gorm"

// defaultGames is the built-in mini-game catalog. Slugs are referenced by the
// browser client and must stay stable once shipped.
var defaultGames = []Game{
	{Slug: "number-asteroids", Title: "Number Asteroids", Topic: "arithmetic", Description: "Blast asteroids whose sums match the target before they reach the station.", MaxBaseScore: 1000},
	{Slug: "fraction-forge", Title: "Fraction Forge", Topic: "fractions", Description: "Forge equivalent fractions by splitting and merging glowing ingots.", MaxBaseScore: 800},
	{Slug: "geometry-gardens", Title: "Geometry Gardens", Topic: "geometry", Description: "Grow crystal gardens by matching solids to their nets and cross-sections.", MaxBaseScore: 1200},
	{Slug: "orbit-algebra", Title: "Orbit Algebra", Topic: "algebra", Description: "Balance orbital equations to keep satellites from drifting away.", MaxBaseScore: 1500},
	{Slug: "prime-depths", Title: "Prime Depths", Topic: "number-theory", Description: "Dive for primes and factor composite pearls before the air runs out.", MaxBaseScore: 900},
}

// defaultAchievements are the built-in badges. Streak-kind thresholds line up
// with the multiplier tiers so badge and bonus land together.
var defaultAchievements = []Achievement{
	{Code: "first-steps", Title: "First Steps", Kind: AchievementKindPoints, Threshold: 100, RewardPoints: 50, Description: "Earn your first 100 points."},
	{Code: "scholar", Title: "Scholar", Kind: AchievementKindPoints, Threshold: 5000, RewardPoints: 250, Description: "Reach 5,000 total points."},
	{Code: "mathematician", Title: "Mathematician", Kind: AchievementKindPoints, Threshold: 50000, RewardPoints: 1000, Description: "Reach 50,000 total points."},
	{Code: "warming-up", Title: "Warming Up", Kind: AchievementKindStreak, Threshold: 3, RewardPoints: 100, Description: "Log in three days in a row."},
	{Code: "week-streak", Title: "Full Week", Kind: AchievementKindStreak, Threshold: 7, RewardPoints: 300, Description: "Log in seven days in a row."},
	{Code: "month-streak", Title: "Lunar Cycle", Kind: AchievementKindStreak, Threshold: 30, RewardPoints: 1500, Description: "Log in thirty days in a row."},
	{Code: "centurion", Title: "Centurion", Kind: AchievementKindStreak, Threshold: 100, RewardPoints: 5000, Description: "Log in one hundred days in a row."},
}

// SeedCatalog inserts the built-in games and achievements that are not yet
// present. Existing rows are left untouched so operators can tweak them.
func SeedCatalog(db *gorm.DB) error {
	for _, g := range defaultGames {
		if err := db.Where("slug = ?", g.Slug).FirstOrCreate(&Game{}, g).Error; err != nil {
			return err
		}
	}
	for _, a := range defaultAchievements {
		if err := db.Where("code = ?", a.Code).FirstOrCreate(&Achievement{}, a).Error; err != nil {
			return err
		}
	}
	return nil
}
