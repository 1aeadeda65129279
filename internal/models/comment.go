package models

// Comment represents a comment on a scraped submission. The parent post's
// title and subreddit are denormalized onto each row.
type Comment struct {
	ID           int64  `gorm:"primaryKey;autoIncrement;column:id"`
	SubmissionID string `gorm:"type:varchar(20);index;column:submission_id"`
	Subreddit    string `gorm:"type:varchar(100);not null;column:subreddit"`
	Title        string `gorm:"type:text;not null;column:title"`
	Author       string `gorm:"type:varchar(255);column:author"`
	Body         string `gorm:"type:text;column:body"`
	Score        int    `gorm:"column:score"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
