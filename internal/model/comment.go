package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is an immutable note on an issue. Unlike an issue's author, a
// comment's author is a hard dependency: deleting the user deletes the
// comment.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	IssueID   uuid.UUID `json:"issue_id" gorm:"type:char(36);not null;index"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:char(36);not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Issue  Issue `json:"-" gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE"`
	Author User  `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets the UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
