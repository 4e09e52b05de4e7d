package entity

import (
	"time"

	"opscal/core/entity"
)

// Worker is the staffing collaborator the schedule core assigns to events.
type Worker struct {
	entity.BaseEntity
	EmployeeID string `db:"employee_id" json:"employee_id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Email      string `db:"email" json:"email"`
	Role       string `db:"role" json:"role"`
	IsActive   bool   `db:"is_active" json:"is_active"`
}

func (Worker) TableName() string {
	return "workers"
}

func (w *Worker) FullName() string {
	return w.FirstName + " " + w.LastName
}

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project is the job/engagement collaborator events may reference.
type Project struct {
	entity.BaseEntity
	JobNumber string        `db:"job_number" json:"job_number"`
	Name      string        `db:"name" json:"name"`
	Status    ProjectStatus `db:"status" json:"status"`
	StartDate *time.Time    `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time    `db:"end_date" json:"end_date,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
