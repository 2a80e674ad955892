package models

import "time"

// DomainEvent is the observable event log. Every state-changing operation
// writes its event inside the same transaction that mutates state, so a
// rolled-back operation leaves no event behind.
type DomainEvent struct {
	EventID   int       `gorm:"primaryKey;column:event_id" json:"event_id"`
	EventName string    `gorm:"column:event_name;index" json:"event_name"`
	Payload   string    `gorm:"column:payload" json:"payload"`
	EmittedAt time.Time `gorm:"column:emitted_at" json:"emitted_at"`
}

func (DomainEvent) TableName() string {
	return "domain_events"
}
