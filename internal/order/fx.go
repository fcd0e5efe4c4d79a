package order

import (
	"github.com/angolife/engage/internal/order/bus"
	"github.com/angolife/engage/internal/order/repository"
	"github.com/angolife/engage/internal/order/service"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideBus(client *redis.Client, log *zap.Logger) bus.Bus {
	return bus.NewRedis(client, log)
}

var Module = fx.Module("order.service",
	fx.Provide(provideBus),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
