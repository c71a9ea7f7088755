package models

import (
	"time"
)

// Reading is one normalized production sample for a station. Timestamp is
// always UTC and aligned to the 5-minute grid; (Timestamp, StationID) is the
// bucket key and at most one row exists per key.
type Reading struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp      time.Time `gorm:"uniqueIndex:idx_timestamp_station;not null" json:"timestamp"`
	StationID      string    `gorm:"uniqueIndex:idx_timestamp_station;not null;size:255" json:"station_id"`
	PowerW         float64   `gorm:"not null" json:"power_w"`
	EnergyDayKWh   float64   `gorm:"column:energy_day_kwh" json:"energy_day_kwh"`
	EnergyTotalKWh float64   `gorm:"column:energy_total_kwh" json:"energy_total_kwh"`
	StatusCode     int       `json:"status_code"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName customizes the table name
func (Reading) TableName() string {
	return "station_readings"
}

// BucketKey identifies the 5-minute window a Reading belongs to.
type BucketKey struct {
	Timestamp time.Time
	StationID string
}

// Key returns the bucket key for the reading.
func (r Reading) Key() BucketKey {
	return BucketKey{Timestamp: r.Timestamp, StationID: r.StationID}
}

// GetAllModels returns all models owned by this tool
func GetAllModels() []interface{} {
	return []interface{}{
		&Reading{},
	}
}
