package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/course-management/internal/api/metrics"
	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

// EnrollmentHandler handles HTTP requests for enroll/leave. The acting user is
// always the token subject; there is no enroll-on-behalf path.
type EnrollmentHandler struct {
	service ports.EnrollmentService
}

func NewEnrollmentHandler(service ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Enroll handles POST /courses/:id/enroll.
//
// @Summary      Enroll in a course
// @Tags         enrollment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Course id"
// @Success      200  {object}  ackResponse
// @Failure      400  {object}  errorResponse  "already enrolled"
// @Failure      404  {object}  errorResponse
// @Router       /courses/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Enroll(c.Request().Context(), c.Param("id"), userID); err != nil {
		metrics.EnrollmentAttemptsTotal.WithLabelValues("enroll", attemptResult(err)).Inc()
		return err
	}

	metrics.EnrollmentAttemptsTotal.WithLabelValues("enroll", "ok").Inc()
	return c.JSON(http.StatusOK, ackResponse{Message: "enrolled"})
}

// Leave handles DELETE /courses/:id/leave.
//
// @Summary      Leave a course
// @Tags         enrollment
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Course id"
// @Success      200  {object}  ackResponse
// @Failure      400  {object}  errorResponse  "not enrolled"
// @Failure      404  {object}  errorResponse
// @Router       /courses/{id}/leave [delete]
func (h *EnrollmentHandler) Leave(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Leave(c.Request().Context(), c.Param("id"), userID); err != nil {
		metrics.EnrollmentAttemptsTotal.WithLabelValues("leave", attemptResult(err)).Inc()
		return err
	}

	metrics.EnrollmentAttemptsTotal.WithLabelValues("leave", "ok").Inc()
	return c.JSON(http.StatusOK, ackResponse{Message: "left course"})
}

func attemptResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyEnrolled), errors.Is(err, domain.ErrNotEnrolled):
		return "conflict"
	case errors.Is(err, domain.ErrCourseNotFound):
		return "not_found"
	default:
		return "error"
	}
}
