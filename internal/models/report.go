package models

import "time"

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentUnknown  Sentiment = "unknown"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentUnknown:
		return true
	}
	return false
}

// Label is the human-readable form used in admin notifications.
func (s Sentiment) Label() string {
	switch s {
	case SentimentPositive:
		return "позитивная"
	case SentimentNegative:
		return "негативная"
	case SentimentNeutral:
		return "нейтральная"
	}
	return "не определена"
}

type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryPayment   Category = "payment"
	CategoryOther     Category = "other"
)

func (c Category) Valid() bool {
	return c == CategoryTechnical || c == CategoryPayment || c == CategoryOther
}

// Report is a user complaint. Text, Sentiment, Category and Timestamp are
// fixed at creation; only Status changes afterwards.
type Report struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Status    Status    `gorm:"size:16;not null;default:'open';index" json:"status"`
	Sentiment Sentiment `gorm:"size:16;not null;default:'unknown'" json:"sentiment"`
	Category  Category  `gorm:"size:16;not null;default:'other'" json:"category"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (Report) TableName() string {
	return "reports"
}
