package domain

import "time"

// Idempotency records the outcome of a previously processed write, keyed by
// (scope, subject, key). Scope names the operation (for example "payments"),
// and Subject identifies the caller the key belongs to. A replayed request
// with the same triple returns ResourceID instead of re-running side effects.
type Idempotency struct {
	ID         string    `gorm:"type:char(36);primaryKey"                                         bson:"_id"`
	Scope      string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_scope_subject_key,priority:1"  bson:"scope"`
	Subject    string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_scope_subject_key,priority:2" bson:"subject"`
	Key        string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_scope_subject_key,priority:3" bson:"key"`
	ResourceID string    `gorm:"type:char(36);not null"                                           bson:"resource_id"`
	Status     int       `gorm:"not null"                                                          bson:"status"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"                                           bson:"created_at"`
	ExpiresAt  time.Time `gorm:"not null;index"                                                    bson:"expires_at"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
