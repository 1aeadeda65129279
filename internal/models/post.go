package models

// Post represents a scraped Reddit submission
type Post struct {
	ID           int64   `gorm:"primaryKey;autoIncrement;column:id"`
	SubmissionID string  `gorm:"type:varchar(20);uniqueIndex;not null;column:submission_id"`
	Subreddit    string  `gorm:"type:varchar(100);not null;column:subreddit"`
	Title        string  `gorm:"type:text;not null;column:title"`
	Body         string  `gorm:"type:text;column:body"`
	UpvoteRatio  float64 `gorm:"column:upvote_ratio"`
	Score        int     `gorm:"column:score"`
	IsProcessed  bool    `gorm:"not null;default:false;column:is_processed"`

	// Relationships
	Comments []Comment `gorm:"foreignKey:SubmissionID;references:SubmissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
