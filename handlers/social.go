// handlers/social.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaltrack/middleware"
	"goaltrack/models"
	"goaltrack/services"
)

type CreatePostRequest struct {
	GoalID *uint  `json:"goal_id"`
	Body   string `json:"body"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}

// SocialHandler covers the community-side business actions plus the auxiliary
// usage hooks. Same pattern as GoalHandler: persist the row, then hand the
// event to the engine.
type SocialHandler struct {
	db     *gorm.DB
	events *services.EventService
}

func NewSocialHandler(db *gorm.DB, events *services.EventService) *SocialHandler {
	return &SocialHandler{db: db, events: events}
}

// CreatePost publishes a community post and runs the post-created event.
func (h *SocialHandler) CreatePost(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Body == "" {
		return c.Status(400).JSON(fiber.Map{"error": "body is required"})
	}

	post := models.Post{
		UserID: userID,
		GoalID: req.GoalID,
		Body:   req.Body,
	}
	if err := h.db.Create(&post).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create post"})
	}

	unlocked := h.events.PostCreated(c.Context(), userID)

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"post":             post,
		"new_achievements": unlocked,
	})
}

// LikePost records a like. Liking twice is a no-op thanks to the unique
// (post_id, user_id) index. Likes on your own post persist but never count
// toward the post owner's tally.
func (h *SocialHandler) LikePost(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	postID, err := c.ParamsInt("id")
	if err != nil || postID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post id"})
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
	}

	like := models.PostLike{PostID: uint(postID), UserID: userID}
	res := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to like post"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(fiber.Map{
			"success":          true,
			"liked":            true,
			"new_achievements": []models.Achievement{},
		})
	}

	unlocked := h.events.PostLiked(c.Context(), userID, post.UserID)

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"liked":            true,
		"new_achievements": unlocked,
	})
}

// CreateComment replies to a post and runs the comment-written event.
func (h *SocialHandler) CreateComment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	postID, err := c.ParamsInt("id")
	if err != nil || postID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post id"})
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Body == "" {
		return c.Status(400).JSON(fiber.Map{"error": "body is required"})
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
	}

	comment := models.Comment{
		PostID: uint(postID),
		UserID: userID,
		Body:   req.Body,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create comment"})
	}

	unlocked := h.events.CommentWritten(c.Context(), userID)

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"comment":          comment,
		"new_achievements": unlocked,
	})
}

// RecordAIUsage logs one use of the AI helper and runs its event.
func (h *SocialHandler) RecordAIUsage(c *fiber.Ctx) error {
	return h.recordUsage(c, "ai_generation")
}

// RecordExport logs one data export and runs its event.
func (h *SocialHandler) RecordExport(c *fiber.Ctx) error {
	return h.recordUsage(c, "export")
}

func (h *SocialHandler) recordUsage(c *fiber.Ctx, kind string) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	event := models.UsageEvent{UserID: userID, Kind: kind}
	if err := h.db.Create(&event).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record usage"})
	}

	var unlocked []models.Achievement
	if kind == "ai_generation" {
		unlocked = h.events.AIAssistUsed(c.Context(), userID)
	} else {
		unlocked = h.events.DataExported(c.Context(), userID)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":          true,
		"new_achievements": unlocked,
	})
}
