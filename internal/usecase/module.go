package usecase

import (
	"go.uber.org/fx"

	"github.com/NarekMan21/test-deploy-crm/internal/uploads"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		NewAuthUseCase,
		NewOrderUseCase,
	),
	fx.Provide(func(store *uploads.Store) PhotoSaver { return store }),
)
