package models

import (
	"time"
)

// CheckInRecord is the append-only daily check-in log. The unique index on
// (user_id, check_in_date) is what makes "once per day" hold under races.
type CheckInRecord struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          string    `gorm:"type:varchar(100);not null;index:idx_check_in_user_date,unique"`
	CheckInDate     time.Time `gorm:"type:date;not null;index:idx_check_in_user_date,unique"`
	CoinsEarned     int64     `gorm:"not null"`
	ConsecutiveDays int       `gorm:"default:1;not null"`
	BonusCoins      int64     `gorm:"default:0;not null"`
}

// TotalCoins is the full payout of this check-in.
func (c *CheckInRecord) TotalCoins() int64 {
	return c.CoinsEarned + c.BonusCoins
}

func (CheckInRecord) TableName() string {
	return "check_in_records"
}
