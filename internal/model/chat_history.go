package model

import (
	"database/sql/driver"
	"errors"
	"time"
)

// Messages stores the chat transcript as an opaque JSON document. The
// server never inspects individual messages; it only round-trips them.
type Messages []byte

func (m Messages) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	return string(m), nil
}

func (m *Messages) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = nil
	case []byte:
		*m = append((*m)[0:0], v...)
	case string:
		*m = Messages(v)
	default:
		return errors.New("unsupported type for Messages column")
	}
	return nil
}

func (m Messages) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("[]"), nil
	}
	return m, nil
}

func (m *Messages) UnmarshalJSON(data []byte) error {
	*m = append((*m)[0:0], data...)
	return nil
}

func (Messages) GormDataType() string {
	return "json"
}

// ChatHistory is a user-owned saved conversation. Only the owning user
// may read, update, or delete it; the user_id check happens in the
// service before any mutation.
type ChatHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:255" json:"title"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Messages  Messages  `json:"messages"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}
