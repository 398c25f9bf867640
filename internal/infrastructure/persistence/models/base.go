package models

import "time"

// BaseModel provides the columns every master-data table carries.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the primary key.
func (m *BaseModel) GetID() int64 {
	return m.ID
}

// nullableID maps 0 to NULL for optional foreign keys.
func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func idOrZero(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// SetID sets the primary key.
func (m *BaseModel) SetID(id int64) {
	m.ID = id
}
