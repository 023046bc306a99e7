package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperr "lms/internal/errors"
	"lms/internal/service"
)

// CourseHandler handles catalog endpoints.
type CourseHandler struct {
	courses   service.CourseService
	uploadDir string
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courses service.CourseService, uploadDir string) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		uploadDir: uploadDir,
	}
}

// CreateCourseRequest represents a course creation request.
type CreateCourseRequest struct {
	Title       string `json:"title" form:"title" validate:"required,min=5,max=60"`
	Description string `json:"description" form:"description" validate:"required,min=50,max=200"`
	Category    string `json:"category" form:"category" validate:"required"`
	CreatedBy   string `json:"createdBy" form:"createdBy" validate:"required"`
}

// UpdateCourseRequest represents a partial course update.
type UpdateCourseRequest struct {
	Title       string `json:"title" form:"title" validate:"omitempty,min=5,max=60"`
	Description string `json:"description" form:"description" validate:"omitempty,min=50,max=200"`
	Category    string `json:"category" form:"category"`
	CreatedBy   string `json:"createdBy" form:"createdBy"`
}

// AddLectureRequest represents a lecture creation request.
type AddLectureRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
}

// List godoc
// @Summary All courses, without lectures
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courses.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "All courses",
		"courses": courses,
	})
}

// Lectures godoc
// @Summary Lectures of a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /courses/{id} [get]
func (h *CourseHandler) Lectures(c echo.Context) error {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.ErrCourseNotFound
	}

	lectures, err := h.courses.Lectures(c.Request().Context(), courseID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Course lectures fetched successfully",
		"lectures": lectures,
	})
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param createdBy formData string true "Mentor"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	thumbnailPath, err := saveUpload(c, "thumbnail", h.uploadDir)
	if err != nil {
		return apperr.ErrFileUpload
	}
	defer removeUpload(thumbnailPath)

	course, err := h.courses.Create(c.Request().Context(), service.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatedBy:   req.CreatedBy,
	}, thumbnailPath)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Course created successfully",
		"course":  course,
	})
}

// Update godoc
// @Summary Update course fields
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body UpdateCourseRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.ErrCourseNotFound
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	course, err := h.courses.Update(c.Request().Context(), courseID, service.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Course updated successfully",
		"course":  course,
	})
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.ErrCourseNotFound
	}

	if err := h.courses.Delete(c.Request().Context(), courseID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Course deleted successfully",
	})
}

// AddLecture godoc
// @Summary Add a lecture to a course
// @Tags courses
// @Accept mpfd
// @Produce json
// @Param id path string true "Course ID"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param lecture formData file false "Lecture media"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /courses/{id} [post]
func (h *CourseHandler) AddLecture(c echo.Context) error {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.ErrCourseNotFound
	}

	var req AddLectureRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	mediaPath, err := saveUpload(c, "lecture", h.uploadDir)
	if err != nil {
		return apperr.ErrFileUpload
	}
	defer removeUpload(mediaPath)

	course, err := h.courses.AddLecture(c.Request().Context(), courseID, req.Title, req.Description, mediaPath)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Lecture added to the course successfully",
		"course":  course,
	})
}

// RemoveLecture godoc
// @Summary Remove a lecture from a course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /courses/{courseId}/lecture/{lectureId} [delete]
func (h *CourseHandler) RemoveLecture(c echo.Context) error {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		return apperr.ErrCourseNotFound
	}
	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		return apperr.ErrLectureNotFound
	}

	if err := h.courses.RemoveLecture(c.Request().Context(), courseID, lectureID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Lecture removed from the course successfully",
	})
}
