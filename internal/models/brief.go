package models

// ProcessedBrief stores the curator agent's final generated text. Append-only.
type ProcessedBrief struct {
	ID             int64  `gorm:"primaryKey;autoIncrement;column:id"`
	CuratedContent string `gorm:"type:text;column:curated_content"`
}

// TableName specifies the table name for ProcessedBrief
func (ProcessedBrief) TableName() string {
	return "processed_briefs"
}
