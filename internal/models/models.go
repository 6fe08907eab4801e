package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResourceType tags a learning resource. The set is advisory; unknown values
// are stored as given.
type ResourceType string

const (
	ResourceLink  ResourceType = "link"
	ResourceVideo ResourceType = "video"
	ResourceBook  ResourceType = "book"
)

// Plan is the root of a study roadmap. OwnerID never changes after creation.
//
// The association slices exist so that AutoMigrate emits ON DELETE CASCADE
// foreign keys; they are never loaded or serialized.
type Plan struct {
	ID                     PlanID    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID                UserID    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title                  string    `gorm:"not null" json:"title"`
	Focus                  string    `json:"focus"`
	Outcome                string    `json:"outcome"`
	EstimatedDurationWeeks *int      `json:"estimated_duration_weeks"`
	CreatedAt              time.Time `gorm:"index" json:"created_at"`

	Milestones  []Milestone  `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE;" json:"-"`
	Bookmarks   []Bookmark   `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE;" json:"-"`
	Generations []Generation `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID.IsZero() {
		p.ID = NewPlanID()
	}
	return nil
}

// Milestone is an ordered phase of a plan.
type Milestone struct {
	ID                MilestoneID `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID            PlanID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	Title             string      `gorm:"not null" json:"title"`
	Description       *string     `json:"description"`
	EstimatedDuration *string     `json:"estimated_duration"`
	OrderIndex        int         `gorm:"not null" json:"order_index"`

	Steps       []Step              `gorm:"foreignKey:MilestoneID;constraint:OnDelete:CASCADE;" json:"-"`
	Completions []MilestoneProgress `gorm:"foreignKey:MilestoneID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID.IsZero() {
		m.ID = NewMilestoneID()
	}
	return nil
}

// Step is an ordered task within a milestone.
type Step struct {
	ID          StepID      `gorm:"type:uuid;primaryKey" json:"id"`
	MilestoneID MilestoneID `gorm:"type:uuid;not null;index" json:"milestone_id"`
	Title       string      `gorm:"not null" json:"title"`
	Description *string     `json:"description"`
	OrderIndex  int         `gorm:"not null" json:"order_index"`

	Resources []Resource `gorm:"foreignKey:StepID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (s *Step) BeforeCreate(tx *gorm.DB) error {
	if s.ID.IsZero() {
		s.ID = NewStepID()
	}
	return nil
}

// Resource is an ordered learning reference within a step.
type Resource struct {
	ID         ResourceID   `gorm:"type:uuid;primaryKey" json:"id"`
	StepID     StepID       `gorm:"type:uuid;not null;index" json:"step_id"`
	Type       ResourceType `gorm:"not null;default:link" json:"type"`
	Title      *string      `json:"title"`
	URL        *string      `json:"url"`
	OrderIndex int          `gorm:"not null" json:"order_index"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID.IsZero() {
		r.ID = NewResourceID()
	}
	return nil
}

type User struct {
	ID           UserID    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID.IsZero() {
		u.ID = NewUserID()
	}
	return nil
}

// Session is a login issued by the identity provider. Token is the bearer
// credential handed to the client.
type Session struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	UserID    UserID    `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Bookmark struct {
	ID        BookmarkID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    UserID     `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_plan" json:"user_id"`
	PlanID    PlanID     `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_plan" json:"plan_id"`
	CreatedAt time.Time  `json:"created_at"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID.IsZero() {
		b.ID = NewBookmarkID()
	}
	return nil
}

// MilestoneProgress records that a user completed a milestone. Users track
// progress on any plan they can read, not only their own.
type MilestoneProgress struct {
	ID          ProgressID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      UserID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_milestone" json:"user_id"`
	PlanID      PlanID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	MilestoneID MilestoneID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_milestone" json:"milestone_id"`
	CompletedAt time.Time   `json:"completed_at"`
}

func (p *MilestoneProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID.IsZero() {
		p.ID = NewProgressID()
	}
	return nil
}

// Generation is an audit record of one model call that produced a plan.
type Generation struct {
	ID        GenerationID   `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   UserID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	PlanID    PlanID         `gorm:"type:uuid;not null;index" json:"plan_id"`
	Model     string         `json:"model"`
	Focus     string         `json:"focus"`
	Outcome   string         `json:"outcome"`
	Usage     datatypes.JSON `json:"usage"`
	Roadmap   datatypes.JSON `json:"roadmap"`
	CreatedAt time.Time      `json:"created_at"`
}

func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.ID.IsZero() {
		g.ID = NewGenerationID()
	}
	return nil
}

// AllModels lists every persisted model in dependency order.
func AllModels() []any {
	return []any{
		&User{},
		&Session{},
		&Plan{},
		&Milestone{},
		&Step{},
		&Resource{},
		&Bookmark{},
		&MilestoneProgress{},
		&Generation{},
	}
}
