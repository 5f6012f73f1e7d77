package model

import "time"

// Semester 学期表 — 对应 semesters
// quota_single 以房间数计（单人间一房一人），quota_double 以房间数计，
// 参与配额比较时统一折算为学生数（quota_double × 2）
type Semester struct {
	SemesterID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`
	ApplyOpen   time.Time `gorm:"not null"                                       json:"apply_open"`
	ApplyClose  time.Time `gorm:"not null"                                       json:"apply_close"`
	IsActive    bool      `gorm:"not null;default:false"                         json:"is_active"`
	QuotaSingle int       `gorm:"not null;default:0"                             json:"quota_single"`
	QuotaDouble int       `gorm:"not null;default:0"                             json:"quota_double"`
	SoftDeleteModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// StudentQuota 返回按学生数计的配额；双人间配额折算为学生数
func (s *Semester) StudentQuota(roomType string) int {
	if roomType == RoomTypeDouble {
		return s.QuotaDouble * 2
	}
	return s.QuotaSingle
}

// WindowOpen 申请窗口在 at 时刻是否开放
func (s *Semester) WindowOpen(at time.Time) bool {
	return !at.Before(s.ApplyOpen) && !at.After(s.ApplyClose)
}
