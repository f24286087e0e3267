package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents the workflow state of an issue.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the three workflow states. Any pair
// of valid states is a legal transition; "done" issues may be reopened.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Issue is a single tracked item inside a project.
type Issue struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:char(36);not null;index"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      Status     `json:"status" gorm:"type:varchar(20);not null;default:'todo';index"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty" gorm:"type:char(36);index"`
	AuthorID    *uuid.UUID `json:"author_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations. The assignee and author survive user deletion as NULLs;
	// comments are removed with the issue.
	Project  Project   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Assignee *User     `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets the UUID and the initial workflow state.
func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = StatusTodo
	}
	return nil
}
