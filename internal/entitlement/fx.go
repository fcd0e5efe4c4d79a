package entitlement

import (
	"github.com/angolife/engage/internal/entitlement/repository"
	"github.com/angolife/engage/internal/entitlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entitlement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
