package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is a catalog entry. Lectures live in their own table and are only
// loaded when a single course is fetched, so listings stay light.
type Course struct {
	ID               uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title            string     `json:"title" gorm:"size:255;not null"`
	Description      string     `json:"description" gorm:"size:512;not null"`
	Category         string     `json:"category" gorm:"size:255;not null;index"`
	Thumbnail        Attachment `json:"thumbnail" gorm:"embedded;embeddedPrefix:thumbnail_"`
	NumberOfLectures int        `json:"numberOfLectures" gorm:"default:0"`
	CreatedBy        string     `json:"createdBy" gorm:"size:255;not null"`

	Lectures []Lecture `json:"lectures,omitempty" gorm:"foreignKey:CourseID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Lecture is a single unit of course content backed by a media object.
type Lecture struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	CourseID    uuid.UUID  `json:"-" gorm:"type:char(36);not null;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"size:512"`
	Media       Attachment `json:"lecture" gorm:"embedded;embeddedPrefix:media_"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Lecture) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
