package models

import (
	"time"
)

const (
	ActionLegitimate  = "legitimate"
	ActionBotAllowed  = "bot_allowed"
	ActionGeoBlocked  = "geo_blocked"
	ActionPathBlocked = "path_blocked"
	ActionBotBlocked  = "bot_blocked"
)

type AccessLog struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp      time.Time `gorm:"index;not null"`
	Action         string    `gorm:"type:varchar(32);not null;index"`
	Country        string    `gorm:"type:varchar(64)"`
	IP             string    `gorm:"type:varchar(45);not null;index"`
	ResponseTimeMS *float64  `gorm:"column:response_time_ms"`
}

type ReportArchive struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Period      string    `gorm:"type:varchar(32);not null;index"`
	Key         string    `gorm:"type:varchar(512);not null"`
	SizeBytes   int64     `gorm:"not null;default:0"`
	GeneratedAt time.Time `gorm:"not null"`
	StoredAt    time.Time `gorm:"index;not null"`
}

func (AccessLog) TableName() string {
	return "access_logs"
}

func (ReportArchive) TableName() string {
	return "report_archive"
}

// IsAttack reports whether the record represents a blocking decision.
func (l AccessLog) IsAttack() bool {
	switch l.Action {
	case ActionGeoBlocked, ActionPathBlocked, ActionBotBlocked:
		return true
	}
	return false
}
