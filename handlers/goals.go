// handlers/goals.go
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"goaltrack/middleware"
	"goaltrack/models"
	"goaltrack/services"
)

type CreateGoalRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	TargetDate  *time.Time `json:"target_date"`
}

type CreateNoteRequest struct {
	GoalID *uint  `json:"goal_id"`
	Body   string `json:"body"`
}

type CreateCheckInRequest struct {
	GoalID uint   `json:"goal_id"`
	Mood   string `json:"mood"`
}

// GoalHandler covers the goal-side business actions. Each write persists the
// domain row first and then hands the event to the engagement engine; an
// engine failure is logged inside the engine and never fails the request.
type GoalHandler struct {
	db     *gorm.DB
	events *services.EventService
}

func NewGoalHandler(db *gorm.DB, events *services.EventService) *GoalHandler {
	return &GoalHandler{db: db, events: events}
}

// CreateGoal creates a goal and runs the goal-created engagement event.
func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
	}
	if err := h.db.Create(&goal).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create goal"})
	}

	unlocked := h.events.GoalCreated(c.Context(), userID)

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"goal":             goal,
		"new_achievements": unlocked,
	})
}

// CompleteGoal marks a goal completed and runs the goal-completed event with
// its timing context. Completing an already-completed goal is a no-op.
func (h *GoalHandler) CompleteGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := c.ParamsInt("id")
	if err != nil || goalID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	var goal models.Goal
	if err := h.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
	}

	if goal.CompletedAt != nil {
		return c.JSON(fiber.Map{
			"success":          true,
			"goal":             goal,
			"new_achievements": []models.Achievement{},
		})
	}

	now := time.Now()
	goal.CompletedAt = &now
	if err := h.db.Model(&goal).Update("completed_at", now).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to complete goal"})
	}

	unlocked := h.events.GoalCompleted(c.Context(), userID, services.GoalCompletionContext{
		CompletedAt: now,
	})

	return c.JSON(fiber.Map{
		"success":          true,
		"goal":             goal,
		"new_achievements": unlocked,
	})
}

// CompleteMilestone marks a milestone completed and runs its event.
func (h *GoalHandler) CompleteMilestone(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := c.ParamsInt("id")
	if err != nil || goalID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid goal id"})
	}
	milestoneID, err := c.ParamsInt("mid")
	if err != nil || milestoneID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid milestone id"})
	}

	var milestone models.Milestone
	if err := h.db.Where("id = ? AND goal_id = ? AND user_id = ?", milestoneID, goalID, userID).
		First(&milestone).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Milestone not found"})
	}

	if milestone.CompletedAt != nil {
		return c.JSON(fiber.Map{
			"success":          true,
			"milestone":        milestone,
			"new_achievements": []models.Achievement{},
		})
	}

	now := time.Now()
	milestone.CompletedAt = &now
	if err := h.db.Model(&milestone).Update("completed_at", now).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to complete milestone"})
	}

	unlocked := h.events.MilestoneCompleted(c.Context(), userID)

	return c.JSON(fiber.Map{
		"success":          true,
		"milestone":        milestone,
		"new_achievements": unlocked,
	})
}

// CreateNote stores a note and runs the note-written event.
func (h *GoalHandler) CreateNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Body == "" {
		return c.Status(400).JSON(fiber.Map{"error": "body is required"})
	}

	note := models.Note{
		UserID: userID,
		GoalID: req.GoalID,
		Body:   req.Body,
	}
	if err := h.db.Create(&note).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create note"})
	}

	unlocked := h.events.NoteWritten(c.Context(), userID, len(req.Body))

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"note":             note,
		"new_achievements": unlocked,
	})
}

// CreateCheckIn logs a check-in against a goal and runs its event.
func (h *GoalHandler) CreateCheckIn(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.GoalID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "goal_id is required"})
	}

	var goal models.Goal
	if err := h.db.Where("id = ? AND user_id = ?", req.GoalID, userID).First(&goal).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
	}

	checkIn := models.CheckIn{
		UserID: userID,
		GoalID: req.GoalID,
		Mood:   req.Mood,
	}
	if err := h.db.Create(&checkIn).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create check-in"})
	}

	unlocked := h.events.CheckInLogged(c.Context(), userID)

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"check_in":         checkIn,
		"new_achievements": unlocked,
	})
}

// LoginPing records the daily login event and returns the current streak.
func (h *GoalHandler) LoginPing(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	streak, unlocked := h.events.DailyLogin(c.Context(), userID)

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to record last login")
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"current_streak":   streak,
		"new_achievements": unlocked,
	})
}
