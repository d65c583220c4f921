package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive     = "ACTIVE"
	StatusProbation  = "PROBATION"
	StatusTerminated = "TERMINATED"
)

// Employee is the slice of the employee master record the timesheet engine reads.
// Organisational fields are read live at computation time and never copied onto entries.
type Employee struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeNumber     string          `gorm:"column:employee_number"`
	FullName           string          `gorm:"column:full_name"`
	BranchID           *uuid.UUID      `gorm:"column:branch_id;type:uuid"`
	BlockID            *uuid.UUID      `gorm:"column:block_id;type:uuid"`
	DepartmentID       *uuid.UUID      `gorm:"column:department_id;type:uuid"`
	PositionID         *uuid.UUID      `gorm:"column:position_id;type:uuid"`
	EmploymentStatus   string          `gorm:"column:employment_status"`
	IsFullSalary       bool            `gorm:"column:is_full_salary"`
	AvailableLeaveDays decimal.Decimal `gorm:"column:available_leave_days;type:numeric(6,2)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) IsTerminated() bool {
	return e.EmploymentStatus == StatusTerminated
}
