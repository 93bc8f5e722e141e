package dto

import "github.com/spec-kit/hr-helpdesk/internal/domain"

// EmployeeResponse is the wire form of a directory profile.
type EmployeeResponse struct {
	ID                   string  `json:"id"`
	Username             string  `json:"username"`
	Name                 string  `json:"name"`
	Designation          string  `json:"designation"`
	Email                string  `json:"email"`
	Salary               int64   `json:"salary"`
	ExperienceYears      int     `json:"experience_years"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	LeavesTaken          int     `json:"leaves_taken"`
}

// NewEmployeeResponse maps a directory profile.
func NewEmployeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                   e.ID,
		Username:             e.Username,
		Name:                 e.Name,
		Designation:          e.Designation,
		Email:                e.Email,
		Salary:               e.Salary,
		ExperienceYears:      e.ExperienceYears,
		AttendancePercentage: e.AttendancePercentage,
		LeavesTaken:          e.LeavesTaken,
	}
}
