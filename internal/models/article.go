package models

import "time"

// Article represents a published news article. Rows are immutable after
// creation; the only lifecycle transitions are create and delete.
type Article struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title   string `gorm:"type:text;not null"` // Headline, always non-empty.
	Content string `gorm:"type:text;not null"` // Body text, always non-empty.

	ImagePath *string `gorm:"type:text"` // Public path of the uploaded image, if any.
	PDFPath   *string `gorm:"type:text"` // Public path of the uploaded PDF, if any.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Set once at creation.
}

// TableName returns the table name for Article.
func (Article) TableName() string {
	return "newsarticles"
}
