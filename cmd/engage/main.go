package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/angolife/engage/internal/adgate"
	"github.com/angolife/engage/internal/adprovider"
	"github.com/angolife/engage/internal/auth"
	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/config"
	"github.com/angolife/engage/internal/engagement"
	"github.com/angolife/engage/internal/entitlement"
	"github.com/angolife/engage/internal/inflight"
	"github.com/angolife/engage/internal/migration"
	"github.com/angolife/engage/internal/observability"
	"github.com/angolife/engage/internal/order"
	"github.com/angolife/engage/internal/server"
	"github.com/angolife/engage/internal/store"
	"github.com/angolife/engage/pkg/db"
)

func main() {
	fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		store.Module,
		migration.Module,

		// Functional domains
		auth.Module,
		adprovider.Module,
		adgate.Module,
		engagement.Module,
		inflight.Module,
		entitlement.Module,
		order.Module,

		server.Module,
	).Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
