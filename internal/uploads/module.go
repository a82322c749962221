package uploads

import (
	"go.uber.org/fx"

	"github.com/NarekMan21/test-deploy-crm/internal/config"
)

// Module exposes the upload store to the fx graph.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Config *config.Config
}

func newStore(p storeParams) (*Store, error) {
	return NewStore(p.Config.UploadDir)
}
