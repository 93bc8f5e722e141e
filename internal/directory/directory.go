// Package directory serves the read-only employee profiles shown on the dashboard.
package directory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

// ErrEmployeeNotFound is returned by ByUsername for unknown usernames.
var ErrEmployeeNotFound = errors.New("employee not found")

// Directory is an immutable, ordered set of employee profiles.
type Directory struct {
	employees  []domain.Employee
	byUsername map[string]int
}

type file struct {
	Employees []domain.Employee `yaml:"employees"`
}

// New builds a Directory. Usernames must be unique and non-empty.
func New(employees []domain.Employee) (*Directory, error) {
	d := &Directory{
		employees:  make([]domain.Employee, len(employees)),
		byUsername: make(map[string]int, len(employees)),
	}
	copy(d.employees, employees)
	for i, e := range d.employees {
		if e.Username == "" {
			return nil, fmt.Errorf("employee %q has no username", e.ID)
		}
		if _, dup := d.byUsername[e.Username]; dup {
			return nil, fmt.Errorf("duplicate employee username %q", e.Username)
		}
		d.byUsername[e.Username] = i
	}
	return d, nil
}

// Load reads a YAML file with a top-level "employees" list. An empty path yields the
// built-in profiles.
func Load(path string) (*Directory, error) {
	if path == "" {
		return New(Defaults())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read employee data: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse employee data: %w", err)
	}
	return New(f.Employees)
}

// All returns every profile in file order.
func (d *Directory) All() []domain.Employee {
	out := make([]domain.Employee, len(d.employees))
	copy(out, d.employees)
	return out
}

// ByUsername returns the profile for username.
func (d *Directory) ByUsername(username string) (domain.Employee, error) {
	i, ok := d.byUsername[username]
	if !ok {
		return domain.Employee{}, ErrEmployeeNotFound
	}
	return d.employees[i], nil
}
