package directory

import "github.com/spec-kit/hr-helpdesk/internal/domain"

// Defaults returns the built-in profiles. The admin and employee entries match the seed accounts.
func Defaults() []domain.Employee {
	return []domain.Employee{
		{
			ID: "E000", Username: "admin", Name: "Priya Raman", Designation: "HR Manager",
			Email: "priya.raman@example.com", Salary: 1800000, ExperienceYears: 11,
			AttendancePercentage: 97.5, LeavesTaken: 6,
		},
		{
			ID: "E001", Username: "employee", Name: "Arjun Mehta", Designation: "Software Engineer",
			Email: "arjun.mehta@example.com", Salary: 1200000, ExperienceYears: 4,
			AttendancePercentage: 94.2, LeavesTaken: 9,
		},
		{
			ID: "E002", Username: "sneha", Name: "Sneha Kapoor", Designation: "Product Designer",
			Email: "sneha.kapoor@example.com", Salary: 1100000, ExperienceYears: 3,
			AttendancePercentage: 96.0, LeavesTaken: 7,
		},
		{
			ID: "E003", Username: "rahul", Name: "Rahul Verma", Designation: "Data Analyst",
			Email: "rahul.verma@example.com", Salary: 950000, ExperienceYears: 2,
			AttendancePercentage: 91.8, LeavesTaken: 12,
		},
		{
			ID: "E004", Username: "meera", Name: "Meera Iyer", Designation: "Engineering Manager",
			Email: "meera.iyer@example.com", Salary: 2400000, ExperienceYears: 13,
			AttendancePercentage: 98.1, LeavesTaken: 4,
		},
	}
}
