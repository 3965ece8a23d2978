package sqldb

import "time"

// UserRow is the users table.
type UserRow struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName pins the table name.
func (UserRow) TableName() string { return "users" }

// PropertyRow is the properties table. The whole table is one listing generation.
// Text sizes mirror the limits enforced by property.New.
type PropertyRow struct {
	ID              uint    `gorm:"primaryKey"`
	Name            string  `gorm:"size:150;not null"`
	Location        string  `gorm:"size:150;not null"`
	Price           float64 `gorm:"not null;index"`
	Bedrooms        int     `gorm:"not null"`
	Bathrooms       int     `gorm:"not null"`
	Area            float64 `gorm:"not null"`
	CommuteTime     int     `gorm:"not null"`
	SchoolRating    int     `gorm:"not null"`
	DistanceTrain   float64 `gorm:"not null"`
	DistanceGrocery float64 `gorm:"not null"`
	Image           *string `gorm:"column:property_images;size:250"`
	CreatedAt       time.Time
}

// TableName pins the table name.
func (PropertyRow) TableName() string { return "properties" }

// FeedbackRow is the feedback table. (user_id, property_id) is unique: one label per pair.
type FeedbackRow struct {
	ID         uint        `gorm:"primaryKey"`
	UserID     uint        `gorm:"not null;uniqueIndex:idx_feedback_user_property"`
	PropertyID uint        `gorm:"not null;uniqueIndex:idx_feedback_user_property;index"`
	Label      string      `gorm:"size:50;not null"`
	CreatedAt  time.Time   `gorm:"not null"`
	UpdatedAt  time.Time   `gorm:"not null"`
	User       UserRow     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Property   PropertyRow `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name.
func (FeedbackRow) TableName() string { return "feedback" }
