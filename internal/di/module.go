package di

import (
	"go.uber.org/fx"

	"github.com/NarekMan21/test-deploy-crm/internal/app"
	"github.com/NarekMan21/test-deploy-crm/internal/config"
	"github.com/NarekMan21/test-deploy-crm/internal/logger"
	"github.com/NarekMan21/test-deploy-crm/internal/pkg/auth"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/handlers"
	"github.com/NarekMan21/test-deploy-crm/internal/server/http/router"
	"github.com/NarekMan21/test-deploy-crm/internal/storage/postgres"
	"github.com/NarekMan21/test-deploy-crm/internal/uploads"
	"github.com/NarekMan21/test-deploy-crm/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		uploads.Module,
		usecase.Module,
		fx.Provide(func(f *app.CRMFacade) handlers.CRMFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
