package service

import (
	"context"
	"database/sql"

	"opscal/core/errors"
	"opscal/core/logger"
	"opscal/modules/directory/entity"
	"opscal/modules/directory/repository"

	"github.com/google/uuid"
)

type DirectoryServiceInterface interface {
	CreateWorker(ctx context.Context, worker *entity.Worker) (*entity.Worker, *errors.AppError)
	GetWorker(ctx context.Context, id uuid.UUID) (*entity.Worker, *errors.AppError)
	ListWorkers(ctx context.Context) ([]entity.Worker, *errors.AppError)
	CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, *errors.AppError)
	GetProject(ctx context.Context, id uuid.UUID) (*entity.Project, *errors.AppError)
	ListProjects(ctx context.Context) ([]entity.Project, *errors.AppError)
}

type directoryService struct {
	repo repository.DirectoryRepository
}

func NewDirectoryService(repo repository.DirectoryRepository) DirectoryServiceInterface {
	return &directoryService{repo: repo}
}

func (s *directoryService) CreateWorker(ctx context.Context, worker *entity.Worker) (*entity.Worker, *errors.AppError) {
	var fields []errors.FieldError
	if worker.EmployeeID == "" {
		fields = append(fields, errors.NewFieldError("employee_id", "employee id is required"))
	}
	if worker.FirstName == "" || worker.LastName == "" {
		fields = append(fields, errors.NewFieldError("name", "first and last name are required"))
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	worker.IsActive = true
	if _, err := s.repo.CreateWorker(ctx, worker); err != nil {
		logger.Error("DirectoryService:CreateWorker:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create worker", nil)
	}
	return worker, nil
}

func (s *directoryService) GetWorker(ctx context.Context, id uuid.UUID) (*entity.Worker, *errors.AppError) {
	worker, err := s.repo.GetWorkerByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "worker not found", nil)
		}
		logger.Error("DirectoryService:GetWorker:Error", "error", err, "worker_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load worker", nil)
	}
	return worker, nil
}

func (s *directoryService) ListWorkers(ctx context.Context) ([]entity.Worker, *errors.AppError) {
	workers, err := s.repo.ListWorkers(ctx)
	if err != nil {
		logger.Error("DirectoryService:ListWorkers:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list workers", nil)
	}
	return workers, nil
}

func (s *directoryService) CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, *errors.AppError) {
	if project.Name == "" {
		return nil, errors.NewValidationError(errors.NewFieldError("name", "project name is required"))
	}
	if project.Status == "" {
		project.Status = entity.ProjectStatusActive
	}
	if _, err := s.repo.CreateProject(ctx, project); err != nil {
		logger.Error("DirectoryService:CreateProject:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create project", nil)
	}
	return project, nil
}

func (s *directoryService) GetProject(ctx context.Context, id uuid.UUID) (*entity.Project, *errors.AppError) {
	project, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "project not found", nil)
		}
		logger.Error("DirectoryService:GetProject:Error", "error", err, "project_id", id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load project", nil)
	}
	return project, nil
}

func (s *directoryService) ListProjects(ctx context.Context) ([]entity.Project, *errors.AppError) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		logger.Error("DirectoryService:ListProjects:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list projects", nil)
	}
	return projects, nil
}
