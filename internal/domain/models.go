// Package domain defines the persistence models for the coaching-suggestion
// pipeline. These types are mapped with GORM and form the core data layer of
// the service.
package domain

import "time"

// SuggestionStatus is the lifecycle state of a suggestion. Transitions only
// move forward: active → viewed → dismissed. There is no way back to active.
type SuggestionStatus string

const (
	StatusActive    SuggestionStatus = "active"
	StatusViewed    SuggestionStatus = "viewed"
	StatusDismissed SuggestionStatus = "dismissed"
)

// CanTransitionTo reports whether moving from s to next is a legal forward
// transition. Re-applying the current state is treated as a benign no-op and
// is allowed.
func (s SuggestionStatus) CanTransitionTo(next SuggestionStatus) bool {
	rank := func(st SuggestionStatus) int {
		switch st {
		case StatusActive:
			return 0
		case StatusViewed:
			return 1
		case StatusDismissed:
			return 2
		}
		return -1
	}
	a, b := rank(s), rank(next)
	return a >= 0 && b >= 0 && b >= a
}

// SuggestionType categorizes the coaching intent of a message. It is
// semantic only and has no effect on the lifecycle.
type SuggestionType string

const (
	TypeEncouragement SuggestionType = "encouragement"
	TypeWarning       SuggestionType = "warning"
	TypeCelebration   SuggestionType = "celebration"
	TypeGuidance      SuggestionType = "guidance"
	TypeReminder      SuggestionType = "reminder"
	TypeMotivation    SuggestionType = "motivation"
	TypeWellness      SuggestionType = "wellness"
)

// TriggerType identifies which upstream evaluation produced a batch. It is
// used for generation idempotency and listing filters.
type TriggerType string

const (
	TriggerPostExam        TriggerType = "post_exam"
	TriggerSessionAnalysis TriggerType = "session_analysis"
	TriggerDailyAnalysis   TriggerType = "daily_analysis"
	TriggerWeeklyAnalysis  TriggerType = "weekly_analysis"
	TriggerMonthlyAnalysis TriggerType = "monthly_analysis"
	TriggerStreakMilestone TriggerType = "streak_milestone"
	TriggerInactivity      TriggerType = "inactivity"
	TriggerExamProximity   TriggerType = "exam_proximity"
	TriggerOnboarding      TriggerType = "onboarding"
)

// Valid reports whether t is one of the known trigger types.
func (t TriggerType) Valid() bool {
	switch t {
	case TriggerPostExam, TriggerSessionAnalysis, TriggerDailyAnalysis,
		TriggerWeeklyAnalysis, TriggerMonthlyAnalysis, TriggerStreakMilestone,
		TriggerInactivity, TriggerExamProximity, TriggerOnboarding:
		return true
	}
	return false
}

// SuggestionCategory is the delivery intent of a suggestion.
type SuggestionCategory string

const (
	CategoryStudyPrompt    SuggestionCategory = "study_prompt"
	CategorySummary        SuggestionCategory = "summary"
	CategoryPracticePrompt SuggestionCategory = "practice_prompt"
	CategoryOther          SuggestionCategory = "other"
)

// Suggestion represents one coaching message instance delivered to a user.
// Records are created in batches by the generator (sharing a creation
// timestamp and contiguous SequenceOrder values), mutated only by transition
// operations and the cleanup worker, and read by the query and streaming
// services.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), immutable.
//   - UserID: owner; every query is scoped to exactly one user.
//   - Type / TriggerType / Category: classification (see the typed enums).
//   - Message: opaque text payload, never inspected or transformed here.
//   - Priority: display emphasis ordinal; sequencing is by SequenceOrder.
//   - ActionName / ActionURL: optional call-to-action, nullable independently.
//   - Status: lifecycle state (active|viewed|dismissed), forward-only.
//   - SequenceOrder: 1-based position within the creation batch, stable.
//   - DisplayUntil: end of the "currently relevant" window.
//   - ExpiresAt: hard TTL after which the cleanup worker may delete the row.
type Suggestion struct {
	ID            string             `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID        string             `json:"user_id"        gorm:"type:varchar(64);not null;index:idx_user_created,priority:1;index:idx_user_status,priority:1"`
	Type          SuggestionType     `json:"type"           gorm:"type:varchar(32);not null"`
	TriggerType   TriggerType        `json:"trigger_type"   gorm:"type:varchar(32);not null;index"`
	Category      SuggestionCategory `json:"category"       gorm:"type:varchar(32);not null;default:'other'"`
	Message       string             `json:"message"        gorm:"type:text;not null"`
	Priority      int                `json:"priority"       gorm:"not null;default:0"`
	ActionName    *string            `json:"action_name,omitempty" gorm:"type:varchar(128)"`
	ActionURL     *string            `json:"action_url,omitempty"  gorm:"type:varchar(512)"`
	Status        SuggestionStatus   `json:"status"         gorm:"type:varchar(16);not null;default:'active';index:idx_user_status,priority:2"`
	SequenceOrder int                `json:"sequence_order" gorm:"not null;default:1"`
	CreatedAt     time.Time          `json:"created_at"     gorm:"index:idx_user_created,priority:2"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DisplayUntil  *time.Time         `json:"display_until,omitempty" gorm:"index"`
	ExpiresAt     *time.Time         `json:"expires_at,omitempty"    gorm:"index"`
}

// TableName returns the database table name for Suggestion.
func (Suggestion) TableName() string { return "suggestions" }

// CurrentlyActive reports whether the record should appear in "currently
// relevant" listings at the given instant: status must be active or viewed
// and now must fall inside both the display window and the hard TTL (the two
// constraints are intersected, neither is trusted alone). Nil windows mean
// "no limit".
func (s *Suggestion) CurrentlyActive(now time.Time) bool {
	if s.Status != StatusActive && s.Status != StatusViewed {
		return false
	}
	if s.DisplayUntil != nil && now.After(*s.DisplayUntil) {
		return false
	}
	if s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return false
	}
	return true
}
