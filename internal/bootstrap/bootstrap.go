// Package bootstrap wires the engine together: configuration, logging,
// database, event handlers, and the app facade, in dependency order.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"voiceforge/internal/app"
	"voiceforge/internal/domain/eventbus"
	"voiceforge/internal/domain/sample"
	samplestore "voiceforge/internal/domain/sample/store"
	"voiceforge/internal/domain/training"
	platformconfig "voiceforge/internal/platform/config"
	platformerrors "voiceforge/internal/platform/errors"
	platformlogging "voiceforge/internal/platform/logging"
	platformstorage "voiceforge/internal/platform/storage"
)

const logTag = "BOOT"

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	db         *gorm.DB
	repo       *platformstorage.SampleRepository
	store      *samplestore.FSStore
	gate       *training.Gate
	engine     *app.Engine
}

// App is the assembled engine plus its owned resources.
type App struct {
	Config *platformconfig.Config
	Logger *platformlogging.Logger
	Engine *app.Engine
}

// Close releases the logger and stops the event workers.
func (a *App) Close() {
	eventbus.Shutdown()
	if a.Logger != nil {
		a.Logger.Close()
	}
}

// Build runs every init step and returns the assembled application.
func Build(ctx context.Context) (*App, error) {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return nil, err
	}

	if state.config == nil || state.logger == nil || state.engine == nil {
		return nil, platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger/engine not initialised",
		)
	}

	state.logger.InfoTag(logTag, "engine initialised", map[string]interface{}{
		"config":   state.configPath,
		"data_dir": state.config.Storage.DataDir,
	})

	return &App{
		Config: state.config,
		Logger: state.logger,
		Engine: state.engine,
	}, nil
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph declares the ordered init steps with their dependencies.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:    "config:load",
			Title: "load configuration",
			Kind:  platformerrors.KindConfig,
			Execute: func(ctx context.Context, state *appState) error {
				result, err := platformconfig.NewLoader().Load()
				if err != nil {
					return err
				}
				state.config = result.Config
				state.configPath = result.Path
				return nil
			},
		},
		{
			ID:        "logging:init",
			Title:     "initialise logging",
			DependsOn: []string{"config:load"},
			Execute: func(ctx context.Context, state *appState) error {
				logger, err := platformlogging.New(platformlogging.Config{
					Level:    state.config.Log.Level,
					Dir:      state.config.Log.Dir,
					Filename: state.config.Log.File,
				})
				if err != nil {
					return err
				}
				state.logger = logger
				return nil
			},
		},
		{
			ID:        "storage:open-database",
			Title:     "open sample index",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute: func(ctx context.Context, state *appState) error {
				db, err := platformstorage.Open(state.config.Storage.DBFile)
				if err != nil {
					return err
				}
				state.db = db
				state.repo = platformstorage.NewSampleRepository(db)
				return nil
			},
		},
		{
			ID:        "events:register-handlers",
			Title:     "register event handlers",
			DependsOn: []string{"logging:init"},
			Execute: func(ctx context.Context, state *appState) error {
				handler := eventbus.NewLoggingHandler(state.logger)
				return handler.Register(eventbus.GetAsync())
			},
		},
		{
			ID:        "engine:init",
			Title:     "assemble engine",
			DependsOn: []string{"storage:open-database", "events:register-handlers"},
			Execute: func(ctx context.Context, state *appState) error {
				validator := sample.NewValidator(state.config.Engine, state.logger)
				store, err := samplestore.NewFSStore(
					samplestore.Config{
						DataDir: state.config.Storage.DataDir,
						Engine:  state.config.Engine,
					},
					state.repo,
					validator,
					state.logger,
				)
				if err != nil {
					return err
				}
				state.store = store
				state.gate = training.NewGate(state.config.Engine, store, state.logger)
				state.engine = app.New(app.Options{
					Config:    state.config.Engine,
					Store:     store,
					Gate:      state.gate,
					Validator: validator,
					DB:        state.db,
					DataDir:   state.config.Storage.DataDir,
					Logger:    state.logger,
				})
				return nil
			},
		},
	}
}
