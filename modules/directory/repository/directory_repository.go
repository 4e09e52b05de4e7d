package repository

import (
	"context"

	"opscal/core/database"
	"opscal/modules/directory/entity"

	"github.com/google/uuid"
)

type DirectoryRepository interface {
	CreateWorker(ctx context.Context, worker *entity.Worker) (*entity.Worker, error)
	GetWorkerByID(ctx context.Context, id uuid.UUID) (*entity.Worker, error)
	ListWorkers(ctx context.Context) ([]entity.Worker, error)

	CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, error)
	GetProjectByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	GetProjectByJobNumber(ctx context.Context, jobNumber string) (*entity.Project, error)
	ListProjects(ctx context.Context) ([]entity.Project, error)
}

type directoryRepository struct {
	db database.IDatabase
}

func NewDirectoryRepository(db database.IDatabase) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) CreateWorker(ctx context.Context, worker *entity.Worker) (*entity.Worker, error) {
	query := `
		INSERT INTO workers (employee_id, first_name, last_name, email, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		worker.EmployeeID, worker.FirstName, worker.LastName, worker.Email, worker.Role, worker.IsActive,
	).Scan(&worker.ID, &worker.CreatedAt, &worker.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return worker, nil
}

func (r *directoryRepository) GetWorkerByID(ctx context.Context, id uuid.UUID) (*entity.Worker, error) {
	query := `
		SELECT id, employee_id, first_name, last_name, email, role, is_active, created_at, updated_at
		FROM workers
		WHERE id = $1
	`
	var worker entity.Worker
	if err := r.db.GetContext(ctx, &worker, query, id); err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *directoryRepository) ListWorkers(ctx context.Context) ([]entity.Worker, error) {
	query := `
		SELECT id, employee_id, first_name, last_name, email, role, is_active, created_at, updated_at
		FROM workers
		WHERE is_active = true
		ORDER BY last_name, first_name
	`
	var workers []entity.Worker
	if err := r.db.SelectContext(ctx, &workers, query); err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *directoryRepository) CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	query := `
		INSERT INTO projects (job_number, name, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		project.JobNumber, project.Name, project.Status, project.StartDate, project.EndDate,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *directoryRepository) GetProjectByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	query := `
		SELECT id, job_number, name, status, start_date, end_date, created_at, updated_at
		FROM projects
		WHERE id = $1
	`
	var project entity.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *directoryRepository) GetProjectByJobNumber(ctx context.Context, jobNumber string) (*entity.Project, error) {
	query := `
		SELECT id, job_number, name, status, start_date, end_date, created_at, updated_at
		FROM projects
		WHERE job_number = $1
	`
	var project entity.Project
	if err := r.db.GetContext(ctx, &project, query, jobNumber); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *directoryRepository) ListProjects(ctx context.Context) ([]entity.Project, error) {
	query := `
		SELECT id, job_number, name, status, start_date, end_date, created_at, updated_at
		FROM projects
		ORDER BY job_number
	`
	var projects []entity.Project
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, err
	}
	return projects, nil
}
