package directory

import (
	"context"

	"opscal/core/database"
	"opscal/core/middleware"
	"opscal/core/relation"
	"opscal/modules/directory/controller"
	"opscal/modules/directory/repository"
	"opscal/modules/directory/router"
	"opscal/modules/directory/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, registry *relation.Registry, mw *middleware.Middleware) service.DirectoryServiceInterface {
	repo := repository.NewDirectoryRepository(db)
	svc := service.NewDirectoryService(repo)
	ctrl := controller.NewDirectoryController(svc)
	router.NewDirectoryRouter(ctrl).Setup(e, mw)

	registry.Register(relation.KindWorker, func(ctx context.Context, id uuid.UUID) (relation.Target, error) {
		worker, appErr := svc.GetWorker(ctx, id)
		if appErr != nil {
			return relation.Target{}, appErr
		}
		return relation.Target{Kind: relation.KindWorker, ID: worker.ID, Label: worker.FullName()}, nil
	})
	registry.Register(relation.KindProject, func(ctx context.Context, id uuid.UUID) (relation.Target, error) {
		project, appErr := svc.GetProject(ctx, id)
		if appErr != nil {
			return relation.Target{}, appErr
		}
		return relation.Target{Kind: relation.KindProject, ID: project.ID, Label: project.Name}, nil
	})

	return svc
}
