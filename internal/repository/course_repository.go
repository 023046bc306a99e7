package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms/internal/model"
)

// CourseRepository defines persistence operations for courses and lectures.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindByID loads a course with its lectures.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	// List returns all courses without lectures.
	List(ctx context.Context) ([]model.Course, error)

	CreateLecture(ctx context.Context, lecture *model.Lecture) error
	FindLecture(ctx context.Context, courseID, lectureID uuid.UUID) (*model.Lecture, error)
	DeleteLecture(ctx context.Context, lectureID uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository builds a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, "id = ?", id).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Preload("Lectures").First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.WithContext(ctx).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) CreateLecture(ctx context.Context, lecture *model.Lecture) error {
	return r.db.WithContext(ctx).Create(lecture).Error
}

func (r *courseRepository) FindLecture(ctx context.Context, courseID, lectureID uuid.UUID) (*model.Lecture, error) {
	var lecture model.Lecture
	err := r.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", lectureID, courseID).
		First(&lecture).Error
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (r *courseRepository) DeleteLecture(ctx context.Context, lectureID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lecture{}, "id = ?", lectureID).Error
}
