// services/events.go - Event Mapper
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"goaltrack/models"
	"goaltrack/repository"
)

// EventType identifies a business event the engine reacts to. The string value
// doubles as the activity-type tag written to the daily ledger.
type EventType string

const (
	EventDailyLogin         EventType = "login"
	EventGoalCreated        EventType = "goal_created"
	EventGoalCompleted      EventType = "goal_completed"
	EventMilestoneCompleted EventType = "milestone_completed"
	EventNoteWritten        EventType = "note_written"
	EventCheckIn            EventType = "check_in"
	EventPostCreated        EventType = "post_created"
	EventPostLiked          EventType = "post_liked"
	EventCommentWritten     EventType = "comment_written"
	EventAIAssistUsed       EventType = "ai_assist"
	EventDataExported       EventType = "export"
)

// metricBinding declares that an event can affect one achievement key, and how
// to measure the current absolute value for it. Adding a new achievement means
// adding a binding here; the evaluator never changes.
type metricBinding struct {
	Key     string
	Compute func(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error)
}

func totalGoalsCreated(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.TotalGoalsCreated(ctx, userID)
}

func totalGoalsCompleted(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.TotalGoalsCompleted(ctx, userID)
}

func distinctCompletedCategories(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.DistinctCompletedCategories(ctx, userID)
}

func goalsCompletedBeforeTarget(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.GoalsCompletedBeforeTarget(ctx, userID)
}

func weekendGoalCreations(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.WeekendGoalCreations(ctx, userID)
}

func milestonesCompleted(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.MilestonesCompleted(ctx, userID)
}

func notesAuthored(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.NotesAuthored(ctx, userID)
}

func checkInsLogged(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.CheckInsLogged(ctx, userID)
}

func postsCreated(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.PostsCreated(ctx, userID)
}

func commentsWritten(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.CommentsWritten(ctx, userID)
}

func earlyMorningCompletions(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.EarlyMorningCompletions(ctx, userID)
}

func lateNightCompletions(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.LateNightCompletions(ctx, userID)
}

func aiGenerations(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.UsageCount(ctx, userID, "ai_generation")
}

func dataExports(ctx context.Context, m repository.MetricsRepository, userID uint) (int, error) {
	return m.UsageCount(ctx, userID, "export")
}

// eventBindings maps every business event to the achievement keys it can
// affect. Order within an event does not matter; each binding is independent.
var eventBindings = map[EventType][]metricBinding{
	EventGoalCreated: {
		{Key: "first_goal", Compute: totalGoalsCreated},
		{Key: "goal_setter", Compute: totalGoalsCreated},
		{Key: "goal_collector", Compute: totalGoalsCreated},
		{Key: "dreamer", Compute: totalGoalsCreated},
		{Key: "weekend_warrior", Compute: weekendGoalCreations},
	},
	EventGoalCompleted: {
		{Key: "first_win", Compute: totalGoalsCompleted},
		{Key: "achiever", Compute: totalGoalsCompleted},
		{Key: "conqueror", Compute: totalGoalsCompleted},
		{Key: "ahead_of_schedule", Compute: goalsCompletedBeforeTarget},
		{Key: "category_explorer", Compute: distinctCompletedCategories},
		{Key: "renaissance", Compute: distinctCompletedCategories},
	},
	EventMilestoneCompleted: {
		{Key: "milestone_first", Compute: milestonesCompleted},
		{Key: "milestone_master", Compute: milestonesCompleted},
	},
	EventNoteWritten: {
		{Key: "note_taker", Compute: notesAuthored},
	},
	EventCheckIn: {
		{Key: "check_in_regular", Compute: checkInsLogged},
	},
	EventPostCreated: {
		{Key: "first_post", Compute: postsCreated},
		{Key: "community_voice", Compute: postsCreated},
	},
	// EventPostLiked has no bindings of its own: the liker only earns ledger
	// activity, and the owner's likes-received key is evaluated separately in
	// PostLiked because it belongs to a different user than the actor.
	EventCommentWritten: {
		{Key: "commentator", Compute: commentsWritten},
	},
	EventAIAssistUsed: {
		{Key: "ai_apprentice", Compute: aiGenerations},
	},
	EventDataExported: {
		{Key: "archivist", Compute: dataExports},
	},
}

// streakKeys are evaluated on every event, fed by the freshly recomputed
// current streak rather than an aggregate query.
var streakKeys = []string{"habit_starter", "habit_keeper", "unbreakable"}

// GoalCompletionContext carries the contextual facts about a completion that
// aggregate queries alone cannot see.
type GoalCompletionContext struct {
	CompletedAt time.Time
}

// EventService translates business events into (achievement key, value) pairs
// and feeds them to the evaluator. It is the only engine component that knows
// how metrics are measured.
type EventService struct {
	metrics      repository.MetricsRepository
	achievements *AchievementService
	streaks      *StreakService
}

func NewEventService(
	metrics repository.MetricsRepository,
	achievements *AchievementService,
	streaks *StreakService,
) *EventService {
	return &EventService{
		metrics:      metrics,
		achievements: achievements,
		streaks:      streaks,
	}
}

// evaluate runs one business event for one user: ledger upsert, streak
// recompute, metric reads, then the evaluator batch. A failed metric read
// skips that key only; nothing here ever propagates an error to the caller.
func (s *EventService) evaluate(ctx context.Context, userID uint, event EventType, extra ...TrackedEvent) (int, []models.Achievement) {
	log := logrus.WithFields(logrus.Fields{
		"event":    string(event),
		"event_id": uuid.NewString(),
		"user_id":  userID,
	})

	streak, err := s.streaks.RecordDailyActivity(ctx, userID, string(event))
	if err != nil {
		log.WithError(err).Error("failed to record daily activity")
		streak = 0
	}

	tracked := make([]TrackedEvent, 0, len(eventBindings[event])+len(streakKeys)+len(extra))
	for _, b := range eventBindings[event] {
		value, err := b.Compute(ctx, s.metrics, userID)
		if err != nil {
			log.WithError(err).WithField("achievement", b.Key).Warn("metric read failed, skipping key")
			continue
		}
		tracked = append(tracked, TrackedEvent{Key: b.Key, Value: value})
	}
	if streak > 0 {
		for _, key := range streakKeys {
			tracked = append(tracked, TrackedEvent{Key: key, Value: streak})
		}
	}
	tracked = append(tracked, extra...)

	unlocked := s.achievements.TrackMultiple(ctx, userID, tracked)
	if len(unlocked) > 0 {
		log.WithField("unlocked", len(unlocked)).Info("achievements unlocked")
	}
	return streak, unlocked
}

// DailyLogin records a login ping and returns the resulting streak.
func (s *EventService) DailyLogin(ctx context.Context, userID uint) (int, []models.Achievement) {
	return s.evaluate(ctx, userID, EventDailyLogin)
}

// GoalCreated reacts to a newly created goal.
func (s *EventService) GoalCreated(ctx context.Context, userID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, userID, EventGoalCreated)
	return unlocked
}

// GoalCompleted reacts to a completion, including the time-of-day keys the
// completion context enables. The hour check uses the server wall clock.
func (s *EventService) GoalCompleted(ctx context.Context, userID uint, done GoalCompletionContext) []models.Achievement {
	var extra []TrackedEvent

	hour := done.CompletedAt.Hour()
	if hour < 8 {
		if v, err := s.metrics.EarlyMorningCompletions(ctx, userID); err == nil {
			extra = append(extra, TrackedEvent{Key: "early_bird", Value: v})
		} else {
			logrus.WithError(err).WithField("user_id", userID).Warn("metric read failed, skipping key early_bird")
		}
	}
	if hour >= 22 {
		if v, err := s.metrics.LateNightCompletions(ctx, userID); err == nil {
			extra = append(extra, TrackedEvent{Key: "night_owl", Value: v})
		} else {
			logrus.WithError(err).WithField("user_id", userID).Warn("metric read failed, skipping key night_owl")
		}
	}

	dayStart := done.CompletedAt.UTC().Truncate(24 * time.Hour)
	if v, err := s.metrics.GoalsCompletedBetween(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1)); err == nil {
		extra = append(extra, TrackedEvent{Key: "productive_day", Value: v})
	} else {
		logrus.WithError(err).WithField("user_id", userID).Warn("metric read failed, skipping key productive_day")
	}

	_, unlocked := s.evaluate(ctx, userID, EventGoalCompleted, extra...)
	return unlocked
}

// MilestoneCompleted reacts to a completed milestone.
func (s *EventService) MilestoneCompleted(ctx context.Context, userID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, userID, EventMilestoneCompleted)
	return unlocked
}

// NoteWritten reacts to a new note. Length gates the long-form key; the
// evaluator itself never sees the note.
func (s *EventService) NoteWritten(ctx context.Context, userID uint, length int) []models.Achievement {
	var extra []TrackedEvent
	if length >= 500 {
		extra = append(extra, TrackedEvent{Key: "storyteller", Value: 1})
	}
	_, unlocked := s.evaluate(ctx, userID, EventNoteWritten, extra...)
	return unlocked
}

// CheckInLogged reacts to a goal check-in.
func (s *EventService) CheckInLogged(ctx context.Context, userID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, userID, EventCheckIn)
	return unlocked
}

// PostCreated reacts to a new community post.
func (s *EventService) PostCreated(ctx context.Context, userID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, userID, EventPostCreated)
	return unlocked
}

// PostLiked reacts to a like. Liking is the liker's activity, so only their
// ledger and streak keys advance; the owner never earns ledger credit for a
// like they received. The owner's likes-received total is re-evaluated and any
// unlock is announced to them, but the returned unlocks are the liker's.
func (s *EventService) PostLiked(ctx context.Context, likerID, ownerID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, likerID, EventPostLiked)

	if likerID == ownerID {
		return unlocked
	}
	v, err := s.metrics.LikesReceived(ctx, ownerID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", ownerID).Warn("metric read failed, skipping key crowd_favorite")
		return unlocked
	}
	s.achievements.TrackMultiple(ctx, ownerID, []TrackedEvent{{Key: "crowd_favorite", Value: v}})
	return unlocked
}

// CommentWritten reacts to a new comment.
func (s *EventService) CommentWritten(ctx context.Context, userID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, userID, EventCommentWritten)
	return unlocked
}

// AIAssistUsed reacts to a use of the AI helper.
func (s *EventService) AIAssistUsed(ctx context.Context, userID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, userID, EventAIAssistUsed)
	return unlocked
}

// DataExported reacts to a data export.
func (s *EventService) DataExported(ctx context.Context, userID uint) []models.Achievement {
	_, unlocked := s.evaluate(ctx, userID, EventDataExported)
	return unlocked
}
