// handlers/engagement.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"goaltrack/middleware"
	"goaltrack/repository"
	"goaltrack/services"
)

type RecordActivityRequest struct {
	ActivityType string `json:"activity_type"`
}

// EngagementHandler exposes the engagement engine's read side plus the raw
// activity-recording endpoint.
type EngagementHandler struct {
	achievements  *services.AchievementService
	streaks       *services.StreakService
	notifications repository.NotificationRepository
}

func NewEngagementHandler(
	achievements *services.AchievementService,
	streaks *services.StreakService,
	notifications repository.NotificationRepository,
) *EngagementHandler {
	return &EngagementHandler{
		achievements:  achievements,
		streaks:       streaks,
		notifications: notifications,
	}
}

// RecordActivity upserts today's ledger entry and returns the current streak.
func (h *EngagementHandler) RecordActivity(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ActivityType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "activity_type is required"})
	}

	streak, err := h.streaks.RecordDailyActivity(c.Context(), userID, req.ActivityType)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record activity"})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"current_streak": streak,
	})
}

// GetStreaks returns the caller's current and longest streaks.
func (h *EngagementHandler) GetStreaks(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	current, err := h.streaks.CurrentStreak(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute streak"})
	}
	longest, err := h.streaks.LongestStreak(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute streak"})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"current_streak": current,
		"longest_streak": longest,
	})
}

// GetStreakLeaderboard returns users ranked by current streak.
// GET /api/streaks/leaderboard?limit=50
func (h *EngagementHandler) GetStreakLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	users, err := h.streaks.Leaderboard(c.Context(), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	entries := make([]fiber.Map, 0, len(users))
	for i, u := range users {
		entries = append(entries, fiber.Map{
			"rank":           i + 1,
			"user_id":        u.ID,
			"username":       u.Username,
			"display_name":   u.DisplayName,
			"avatar":         u.Avatar,
			"current_streak": u.CurrentStreak,
			"longest_streak": u.LongestStreak,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"total":   len(entries),
	})
}

// GetUserAchievements returns the full catalog joined with the caller's
// progress.
func (h *EngagementHandler) GetUserAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	views, err := h.achievements.UserAchievements(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	unlocked := 0
	for _, v := range views {
		if v.Unlocked {
			unlocked++
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": views,
		"total":        len(views),
		"unlocked":     unlocked,
	})
}

// GetUserAchievementStats returns totals and per-tier unlock counts.
func (h *EngagementHandler) GetUserAchievementStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	stats, err := h.achievements.UserStats(c.Context(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievement stats"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// GetNotifications lists the caller's unlock notifications, newest first.
func (h *EngagementHandler) GetNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := h.notifications.ListByUser(c.Context(), userID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": rows,
	})
}

// MarkNotificationRead flags one notification as read.
func (h *EngagementHandler) MarkNotificationRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	if err := h.notifications.MarkRead(c.Context(), userID, uint(id)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update notification"})
	}

	return c.JSON(fiber.Map{"success": true})
}
