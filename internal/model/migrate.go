package model

import "gorm.io/gorm"

// AutoMigrate creates the attendance table and its unique indexes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Attendance{})
}
