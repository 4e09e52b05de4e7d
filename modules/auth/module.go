package auth

import (
	"context"

	"opscal/core/cache"
	"opscal/core/database"
	"opscal/core/middleware"
	"opscal/core/relation"
	"opscal/modules/auth/controller"
	"opscal/modules/auth/repository"
	"opscal/modules/auth/router"
	"opscal/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, registry *relation.Registry, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	router.NewAuthRouter(ctrl).Setup(e, mw)

	// Users are valid generic relation targets (calendar permissions key on
	// them).
	registry.Register(relation.KindUser, func(ctx context.Context, id uuid.UUID) (relation.Target, error) {
		user, appErr := svc.GetUserByID(ctx, id)
		if appErr != nil {
			return relation.Target{}, appErr
		}
		return relation.Target{Kind: relation.KindUser, ID: user.ID, Label: user.FullName()}, nil
	})

	return svc
}
