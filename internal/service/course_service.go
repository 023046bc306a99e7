package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lms/internal/cache"
	apperr "lms/internal/errors"
	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/storage"
)

const (
	courseListCacheTTL = 5 * time.Minute

	thumbnailFolder = "lms/thumbnails"
	lectureFolder   = "lms/lectures"
)

var courseListCacheKey = cache.Key("courses", "all")

// CreateCourseInput is the data required to create a course.
type CreateCourseInput struct {
	Title       string
	Description string
	Category    string
	CreatedBy   string
}

// UpdateCourseInput carries a partial update; empty fields are left alone.
type UpdateCourseInput struct {
	Title       string
	Description string
	Category    string
	CreatedBy   string
}

// CourseService handles catalog operations.
type CourseService interface {
	List(ctx context.Context) ([]model.Course, error)
	Lectures(ctx context.Context, courseID uuid.UUID) ([]model.Lecture, error)
	Create(ctx context.Context, in CreateCourseInput, thumbnailPath string) (*model.Course, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateCourseInput) (*model.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddLecture(ctx context.Context, courseID uuid.UUID, title, description, mediaPath string) (*model.Course, error)
	RemoveLecture(ctx context.Context, courseID, lectureID uuid.UUID) error
}

type courseService struct {
	repo  repository.CourseRepository
	store storage.Storage
	cache cache.Store
}

// NewCourseService creates a new course service.
func NewCourseService(repo repository.CourseRepository, store storage.Storage, cache cache.Store) CourseService {
	return &courseService{
		repo:  repo,
		store: store,
		cache: cache,
	}
}

// List returns all courses without their lectures, served from cache when
// fresh. Every catalog mutation invalidates the cached listing.
func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	if data, _ := s.cache.Get(ctx, courseListCacheKey); data != nil {
		var cached []model.Course
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	if payload, err := json.Marshal(courses); err == nil {
		_ = s.cache.Set(ctx, courseListCacheKey, payload, courseListCacheTTL)
	}

	return courses, nil
}

// Lectures returns the lectures of a single course.
func (s *courseService) Lectures(ctx context.Context, courseID uuid.UUID) ([]model.Lecture, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, apperr.ErrCourseNotFound
	}
	return course.Lectures, nil
}

// Create stores a new course, uploading the thumbnail when provided.
func (s *courseService) Create(ctx context.Context, in CreateCourseInput, thumbnailPath string) (*model.Course, error) {
	course := &model.Course{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		CreatedBy:   in.CreatedBy,
	}

	if thumbnailPath != "" {
		result, err := s.store.Upload(ctx, thumbnailPath, thumbnailFolder)
		if err != nil {
			return nil, apperr.ErrFileUpload
		}
		course.Thumbnail = model.Attachment{PublicID: result.PublicID, SecureURL: result.SecureURL}
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	_ = s.cache.Delete(ctx, courseListCacheKey)
	return course, nil
}

// Update applies the non-empty fields of in to an existing course.
func (s *courseService) Update(ctx context.Context, id uuid.UUID, in UpdateCourseInput) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.ErrCourseNotFound
	}

	if in.Title != "" {
		course.Title = in.Title
	}
	if in.Description != "" {
		course.Description = in.Description
	}
	if in.Category != "" {
		course.Category = in.Category
	}
	if in.CreatedBy != "" {
		course.CreatedBy = in.CreatedBy
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	_ = s.cache.Delete(ctx, courseListCacheKey)
	return course, nil
}

// Delete removes a course along with its stored media objects.
func (s *courseService) Delete(ctx context.Context, id uuid.UUID) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.ErrCourseNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	// media cleanup is best effort; the catalog row is already gone
	_ = s.store.Destroy(ctx, course.Thumbnail.PublicID)
	for _, lecture := range course.Lectures {
		_ = s.store.Destroy(ctx, lecture.Media.PublicID)
	}

	_ = s.cache.Delete(ctx, courseListCacheKey)
	return nil
}

// AddLecture appends a lecture to a course, uploading its media file, and
// keeps NumberOfLectures in step.
func (s *courseService) AddLecture(ctx context.Context, courseID uuid.UUID, title, description, mediaPath string) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, apperr.ErrCourseNotFound
	}

	lecture := &model.Lecture{
		ID:          uuid.New(),
		CourseID:    course.ID,
		Title:       title,
		Description: description,
	}

	if mediaPath != "" {
		result, err := s.store.Upload(ctx, mediaPath, lectureFolder)
		if err != nil {
			return nil, apperr.ErrFileUpload
		}
		lecture.Media = model.Attachment{PublicID: result.PublicID, SecureURL: result.SecureURL}
	}

	if err := s.repo.CreateLecture(ctx, lecture); err != nil {
		return nil, fmt.Errorf("create lecture: %w", err)
	}

	course.Lectures = append(course.Lectures, *lecture)
	course.NumberOfLectures = len(course.Lectures)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update lecture count: %w", err)
	}

	_ = s.cache.Delete(ctx, courseListCacheKey)
	return course, nil
}

// RemoveLecture deletes a lecture and its media object and keeps
// NumberOfLectures in step.
func (s *courseService) RemoveLecture(ctx context.Context, courseID, lectureID uuid.UUID) error {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return apperr.ErrCourseNotFound
	}

	lecture, err := s.repo.FindLecture(ctx, courseID, lectureID)
	if err != nil {
		return apperr.ErrLectureNotFound
	}

	if err := s.repo.DeleteLecture(ctx, lecture.ID); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}

	_ = s.store.Destroy(ctx, lecture.Media.PublicID)

	remaining := course.Lectures[:0]
	for _, l := range course.Lectures {
		if l.ID != lecture.ID {
			remaining = append(remaining, l)
		}
	}
	course.Lectures = remaining
	course.NumberOfLectures = len(remaining)
	if err := s.repo.Update(ctx, course); err != nil {
		return fmt.Errorf("update lecture count: %w", err)
	}

	_ = s.cache.Delete(ctx, courseListCacheKey)
	return nil
}
