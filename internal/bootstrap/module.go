package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/vtjnash/whedon-api/internal/bootstrap/config"
	"github.com/vtjnash/whedon-api/internal/bootstrap/logging"
	ghinfra "github.com/vtjnash/whedon-api/internal/infrastructure/github"
	queueinfra "github.com/vtjnash/whedon-api/internal/infrastructure/queue"
	siteinfra "github.com/vtjnash/whedon-api/internal/infrastructure/site"
	"github.com/vtjnash/whedon-api/internal/ports"
	"github.com/vtjnash/whedon-api/internal/usecase/dispatch"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(providePlatform),
	fx.Provide(provideRegistry),
	fx.Provide(
		fx.Annotate(
			func() *siteinfra.Client { return siteinfra.New() },
			fx.As(new(ports.ReviewSite)),
		),
	),
	fx.Provide(provideQueue),
	fx.Provide(provideService),
	fx.Provide(provideApp),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func providePlatform(ctx context.Context, cfg config.Config) ports.Platform {
	return ghinfra.New(ctx, cfg.GitHub.Token)
}

func provideRegistry(ctx context.Context, cfg config.Config, platform ports.Platform) (*config.Registry, error) {
	reg := config.NewRegistry(cfg.Journals)
	if err := reg.Init(ctx, platform); err != nil {
		return nil, err
	}
	return reg, nil
}

func provideQueue(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.Queue, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	q, err := queueinfra.Connect(logCtx, cfg.NATS.URL)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return q.Drain()
		},
	})

	return q, nil
}

func provideService(reg *config.Registry, platform ports.Platform, site ports.ReviewSite, queue ports.Queue, cfg config.Config) *dispatch.Service {
	return dispatch.NewService(reg, platform, site, queue, cfg.App.BotHandle)
}

func provideApp(cfg config.Config, reg *config.Registry) *App {
	return &App{
		Config:   cfg,
		Registry: reg,
	}
}
