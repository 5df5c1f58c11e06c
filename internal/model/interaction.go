package model

import (
	"time"
)

// Interaction is the append-only audit record written after every
// generation or evaluation call. Rows are never updated or deleted.
type Interaction struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Grade     string    `gorm:"size:50" json:"grade"`
	Subject   string    `gorm:"size:100" json:"subject"`
	Topic     string    `gorm:"size:100" json:"topic"`
	Question  string    `gorm:"type:text" json:"question"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Feedback  string    `gorm:"type:text" json:"feedback"`
}

func (Interaction) TableName() string {
	return "interactions"
}
