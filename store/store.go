package store

import (
	"fmt"

	"station_data_sync/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersistenceError indicates the database rejected a write.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ReadingStore writes normalized readings into the station_readings table.
type ReadingStore struct {
	db *gorm.DB
}

// NewReadingStore creates a store bound to an open connection.
func NewReadingStore(db *gorm.DB) *ReadingStore {
	return &ReadingStore{db: db}
}

// updatedOnConflict lists the columns an upsert overwrites when a row for the
// bucket key already exists. The key columns themselves never change.
var updatedOnConflict = []string{
	"power_w",
	"energy_day_kwh",
	"energy_total_kwh",
	"status_code",
	"updated_at",
}

// Upsert inserts the reading or overwrites the row sharing its bucket key.
// The conflict resolution lives in the statement itself so concurrent runs
// cannot race a read-then-write check.
func (s *ReadingStore) Upsert(reading models.Reading) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "timestamp"},
			{Name: "station_id"},
		},
		DoUpdates: clause.AssignmentColumns(updatedOnConflict),
	}).Create(&reading).Error

	if err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}

// CountForStation returns the number of persisted rows for a station.
func (s *ReadingStore) CountForStation(stationID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Reading{}).
		Where("station_id = ?", stationID).
		Count(&count).Error
	if err != nil {
		return 0, &PersistenceError{Err: err}
	}
	return count, nil
}
