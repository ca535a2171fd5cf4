package models

import (
	"time"
)

type User struct {
	UserID        string     `gorm:"primaryKey;type:varchar(100)"`
	Username      string     `gorm:"type:varchar(255);not null"`
	Coins         int64      `gorm:"default:0;not null"`
	TotalEarned   int64      `gorm:"default:0;not null"`
	TotalSpent    int64      `gorm:"default:0;not null"`
	CheckInCount  int        `gorm:"default:0;not null"` // consecutive days
	LastCheckIn   *time.Time
	TotalCheckIns int        `gorm:"default:0;not null"`
	Level         int        `gorm:"default:1;not null"`
	Experience    int64      `gorm:"default:0;not null"`
	Title         string     `gorm:"type:varchar(50);default:'新人'"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// DefaultTitle is the title new users start with.
const DefaultTitle = "新人"

// XPRequired returns the experience needed to clear the current level.
func (u *User) XPRequired() int64 {
	return int64(u.Level) * 100
}

// AddExperience adds exp and consumes it into level-ups. Returns true when
// at least one level was gained.
func (u *User) AddExperience(exp int64) bool {
	if exp <= 0 {
		return false
	}

	u.Experience += exp
	leveled := false
	for u.Experience >= u.XPRequired() {
		u.Experience -= u.XPRequired()
		u.Level++
		leveled = true
	}
	return leveled
}

// NetProfit is lifetime earnings minus lifetime spending.
func (u *User) NetProfit() int64 {
	return u.TotalEarned - u.TotalSpent
}

// CheckedInOn reports whether the user's last check-in fell on the same
// UTC calendar day as t.
func (u *User) CheckedInOn(t time.Time) bool {
	if u.LastCheckIn == nil {
		return false
	}
	last := u.LastCheckIn.UTC()
	day := t.UTC()
	return last.Year() == day.Year() && last.YearDay() == day.YearDay()
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
