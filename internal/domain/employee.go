package domain

// Employee is a directory profile shown on the dashboard.
type Employee struct {
	ID                   string  `json:"id" yaml:"id"`
	Username             string  `json:"username" yaml:"username"`
	Name                 string  `json:"name" yaml:"name"`
	Designation          string  `json:"designation" yaml:"designation"`
	Email                string  `json:"email" yaml:"email"`
	Salary               int64   `json:"salary" yaml:"salary"`
	ExperienceYears      int     `json:"experience_years" yaml:"experience_years"`
	AttendancePercentage float64 `json:"attendance_percentage" yaml:"attendance_percentage"`
	LeavesTaken          int     `json:"leaves_taken" yaml:"leaves_taken"`
}
