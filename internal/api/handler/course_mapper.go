package handler

import "github.com/coursehub/course-management/internal/core/domain"

func toCourseResponse(course *domain.Course) courseResponse {
	roster := make([]enrolledStudentResponse, 0, len(course.EnrolledStudents))
	for _, s := range course.EnrolledStudents {
		roster = append(roster, enrolledStudentResponse{ID: s.ID, Name: s.Name, Email: s.Email})
	}
	return courseResponse{
		ID:                course.ID,
		CourseName:        course.CourseName,
		CourseDescription: course.CourseDescription,
		Instructor:        course.Instructor,
		EnrolledStudents:  roster,
		CreatedAt:         course.CreatedAt,
	}
}
