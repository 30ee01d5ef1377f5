package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/course-management/internal/api/metrics"
	"github.com/coursehub/course-management/internal/core/ports"
)

// CourseHandler handles HTTP requests for catalogue operations. Domain errors
// bubble up to the central error handler for status mapping.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Create handles POST /courses.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      courseRequest  true  "Course fields"
// @Success      201   {object}  courseResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	course, err := h.service.CreateCourse(c.Request().Context(), ports.CourseInput{
		CourseName:        req.CourseName,
		CourseDescription: req.CourseDescription,
		Instructor:        req.Instructor,
	})
	if err != nil {
		return err
	}

	metrics.CoursesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toCourseResponse(course))
}

// List handles GET /courses with an optional ?search= filter.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive substring match on course name"
// @Success      200     {array}   courseResponse
// @Failure      401     {object}  errorResponse
// @Router       /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.service.ListCourses(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}

	out := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, toCourseResponse(course))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /courses/:id. All three fields are replaced together.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Course id"
// @Param        body  body      courseRequest  true  "Replacement course fields"
// @Success      200   {object}  courseResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	course, err := h.service.UpdateCourse(c.Request().Context(), c.Param("id"), ports.CourseInput{
		CourseName:        req.CourseName,
		CourseDescription: req.CourseDescription,
		Instructor:        req.Instructor,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCourseResponse(course))
}

// Delete handles DELETE /courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Course id"
// @Success      200  {object}  ackResponse
// @Failure      404  {object}  errorResponse
// @Router       /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCourse(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ackResponse{Message: "course deleted"})
}
