package models

// Sentiment holds the aggregated sentiment summary for one post.
// SentimentResults is the serialized summary payload (dominant label,
// average compound, label histogram, total comments).
type Sentiment struct {
	ID               int64  `gorm:"primaryKey;autoIncrement;column:id"`
	PostID           string `gorm:"type:varchar(20);index;not null;column:post_id"`
	SentimentResults string `gorm:"type:text;column:sentiment_results"`
}

// TableName specifies the table name for Sentiment
func (Sentiment) TableName() string {
	return "sentiments"
}
