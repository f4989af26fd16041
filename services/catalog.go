// services/catalog.go - Achievement Catalog
package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaltrack/models"
)

// Tier is the ordinal difficulty band of an achievement.
// Comparisons must use the ordinal, never the label strings.
type Tier int

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierDiamond
	TierLegendary
)

var tierNames = [...]string{"bronze", "silver", "gold", "diamond", "legendary"}

func (t Tier) String() string {
	if t < TierBronze || t > TierLegendary {
		return "unknown"
	}
	return tierNames[t]
}

// ParseTier maps a stored label back to its ordinal.
func ParseTier(s string) (Tier, bool) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), true
		}
	}
	return TierBronze, false
}

// Tiers returns all tiers in ascending order.
func Tiers() []Tier {
	return []Tier{TierBronze, TierSilver, TierGold, TierDiamond, TierLegendary}
}

// AchievementDef is one static catalog entry.
type AchievementDef struct {
	Key         string
	Title       string
	Description string
	Icon        string
	Category    string
	Target      int
	Tier        Tier
	Points      int
	Rarity      string
}

// achievementDefs is the full static catalog, in seed order.
var achievementDefs = []AchievementDef{
	// Goals created
	{Key: "first_goal", Title: "First Goal", Description: "Create your first goal", Icon: "🎯", Category: "Goals", Target: 1, Tier: TierBronze, Points: 10, Rarity: "common"},
	{Key: "goal_setter", Title: "Goal Setter", Description: "Create 5 goals", Icon: "📋", Category: "Goals", Target: 5, Tier: TierBronze, Points: 25, Rarity: "common"},
	{Key: "goal_collector", Title: "Goal Collector", Description: "Create 25 goals", Icon: "🗂️", Category: "Goals", Target: 25, Tier: TierSilver, Points: 75, Rarity: "uncommon"},
	{Key: "dreamer", Title: "Dreamer", Description: "Create 100 goals", Icon: "💭", Category: "Goals", Target: 100, Tier: TierGold, Points: 200, Rarity: "rare"},

	// Goals completed
	{Key: "first_win", Title: "First Win", Description: "Complete your first goal", Icon: "🏆", Category: "Goals", Target: 1, Tier: TierBronze, Points: 20, Rarity: "common"},
	{Key: "achiever", Title: "Achiever", Description: "Complete 10 goals", Icon: "⭐", Category: "Goals", Target: 10, Tier: TierSilver, Points: 100, Rarity: "uncommon"},
	{Key: "conqueror", Title: "Conqueror", Description: "Complete 50 goals", Icon: "👑", Category: "Goals", Target: 50, Tier: TierDiamond, Points: 400, Rarity: "epic"},

	// Timing
	{Key: "ahead_of_schedule", Title: "Ahead of Schedule", Description: "Complete 3 goals before their target date", Icon: "⏰", Category: "Timing", Target: 3, Tier: TierSilver, Points: 80, Rarity: "uncommon"},
	{Key: "early_bird", Title: "Early Bird", Description: "Complete 5 goals before 8 AM", Icon: "🌅", Category: "Timing", Target: 5, Tier: TierGold, Points: 120, Rarity: "rare"},
	{Key: "night_owl", Title: "Night Owl", Description: "Complete 5 goals after 10 PM", Icon: "🦉", Category: "Timing", Target: 5, Tier: TierGold, Points: 120, Rarity: "rare"},
	{Key: "productive_day", Title: "Productive Day", Description: "Complete 3 goals in a single day", Icon: "🔥", Category: "Timing", Target: 3, Tier: TierSilver, Points: 90, Rarity: "uncommon"},
	{Key: "weekend_warrior", Title: "Weekend Warrior", Description: "Start 4 goals on weekends", Icon: "🛡️", Category: "Timing", Target: 4, Tier: TierSilver, Points: 60, Rarity: "uncommon"},

	// Categories
	{Key: "category_explorer", Title: "Category Explorer", Description: "Complete goals in 3 different categories", Icon: "🧭", Category: "Goals", Target: 3, Tier: TierSilver, Points: 70, Rarity: "uncommon"},
	{Key: "renaissance", Title: "Renaissance Soul", Description: "Complete goals in 5 different categories", Icon: "🎨", Category: "Goals", Target: 5, Tier: TierGold, Points: 150, Rarity: "rare"},

	// Milestones
	{Key: "milestone_first", Title: "Stepping Stone", Description: "Complete your first milestone", Icon: "🪜", Category: "Milestones", Target: 1, Tier: TierBronze, Points: 10, Rarity: "common"},
	{Key: "milestone_master", Title: "Milestone Master", Description: "Complete 25 milestones", Icon: "🧱", Category: "Milestones", Target: 25, Tier: TierGold, Points: 150, Rarity: "rare"},

	// Notes
	{Key: "note_taker", Title: "Note Taker", Description: "Write 10 notes", Icon: "📝", Category: "Notes", Target: 10, Tier: TierBronze, Points: 40, Rarity: "common"},
	{Key: "storyteller", Title: "Storyteller", Description: "Write a note of 500 characters or more", Icon: "📖", Category: "Notes", Target: 1, Tier: TierSilver, Points: 50, Rarity: "uncommon"},

	// Streaks
	{Key: "habit_starter", Title: "Habit Starter", Description: "Stay active 7 days in a row", Icon: "📅", Category: "Streak", Target: 7, Tier: TierSilver, Points: 100, Rarity: "uncommon"},
	{Key: "habit_keeper", Title: "Habit Keeper", Description: "Stay active 30 days in a row", Icon: "🗓️", Category: "Streak", Target: 30, Tier: TierDiamond, Points: 350, Rarity: "epic"},
	{Key: "unbreakable", Title: "Unbreakable", Description: "Stay active 100 days in a row", Icon: "💎", Category: "Streak", Target: 100, Tier: TierLegendary, Points: 1000, Rarity: "legendary"},
	{Key: "check_in_regular", Title: "Regular", Description: "Log 20 check-ins", Icon: "✅", Category: "Streak", Target: 20, Tier: TierSilver, Points: 60, Rarity: "uncommon"},

	// Social
	{Key: "first_post", Title: "Breaking the Ice", Description: "Share your first post", Icon: "💬", Category: "Social", Target: 1, Tier: TierBronze, Points: 15, Rarity: "common"},
	{Key: "community_voice", Title: "Community Voice", Description: "Share 10 posts", Icon: "📣", Category: "Social", Target: 10, Tier: TierSilver, Points: 80, Rarity: "uncommon"},
	{Key: "crowd_favorite", Title: "Crowd Favorite", Description: "Receive 25 likes on your posts", Icon: "❤️", Category: "Social", Target: 25, Tier: TierGold, Points: 160, Rarity: "rare"},
	{Key: "commentator", Title: "Commentator", Description: "Write 15 comments", Icon: "🗨️", Category: "Social", Target: 15, Tier: TierSilver, Points: 60, Rarity: "uncommon"},

	// Special
	{Key: "ai_apprentice", Title: "AI Apprentice", Description: "Use the AI helper 10 times", Icon: "🤖", Category: "Special", Target: 10, Tier: TierSilver, Points: 50, Rarity: "uncommon"},
	{Key: "archivist", Title: "Archivist", Description: "Export your data 3 times", Icon: "📦", Category: "Special", Target: 3, Tier: TierBronze, Points: 30, Rarity: "common"},
}

// CatalogDefs returns the static catalog in seed order.
func CatalogDefs() []AchievementDef {
	return achievementDefs
}

// SeedAchievements inserts any catalog entries missing from the achievements
// table. Existing rows are left untouched, so reward edits made after an
// earlier seed survive restarts.
func SeedAchievements(db *gorm.DB) error {
	for _, def := range achievementDefs {
		row := models.Achievement{
			Key:         def.Key,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			TargetValue: def.Target,
			Tier:        def.Tier.String(),
			Points:      def.Points,
			Rarity:      def.Rarity,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// CatalogStore resolves achievement keys to their seeded catalog rows.
type CatalogStore interface {
	ByKey(key string) (models.Achievement, bool)
	All() []models.Achievement
}

type staticCatalog struct {
	rows  []models.Achievement
	byKey map[string]models.Achievement
}

// LoadCatalog reads the seeded achievement rows into an immutable in-memory
// catalog. Call after SeedAchievements.
func LoadCatalog(db *gorm.DB) (CatalogStore, error) {
	var rows []models.Achievement
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	byKey := make(map[string]models.Achievement, len(rows))
	for _, row := range rows {
		if _, ok := ParseTier(row.Tier); !ok {
			logrus.WithField("achievement", row.Key).Warnf("unknown tier %q in catalog row", row.Tier)
		}
		byKey[row.Key] = row
	}
	return &staticCatalog{rows: rows, byKey: byKey}, nil
}

// NewCatalog builds a catalog directly from rows. Used by tests.
func NewCatalog(rows []models.Achievement) CatalogStore {
	byKey := make(map[string]models.Achievement, len(rows))
	for _, row := range rows {
		byKey[row.Key] = row
	}
	return &staticCatalog{rows: rows, byKey: byKey}
}

func (c *staticCatalog) ByKey(key string) (models.Achievement, bool) {
	row, ok := c.byKey[key]
	return row, ok
}

func (c *staticCatalog) All() []models.Achievement {
	return c.rows
}
