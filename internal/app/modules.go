package app

import (
	"github.com/nfrund/instagrid/internal/aifill"
	"github.com/nfrund/instagrid/internal/config"
	"github.com/nfrund/instagrid/internal/export"
	"github.com/nfrund/instagrid/internal/ingest"
	"github.com/nfrund/instagrid/internal/live"
	"github.com/nfrund/instagrid/internal/module"
	"github.com/nfrund/instagrid/internal/modules/planner"
	"github.com/nfrund/instagrid/internal/pubsub"
	"github.com/nfrund/instagrid/internal/rendering"
	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/samber/do/v2"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(i do.Injector) ([]module.Module, error) {
	deps, err := plannerDeps(i)
	if err != nil {
		return nil, err
	}
	return []module.Module{
		// Add new application modules here.
		planner.New(deps),
	}, nil
}

// plannerDeps resolves the dependency struct for the planner module.
func plannerDeps(i do.Injector) (planner.Dependencies, error) {
	var (
		deps planner.Dependencies
		err  error
	)
	if deps.Config, err = do.Invoke[*config.Config](i); err != nil {
		return deps, err
	}
	if deps.Pool, err = do.Invoke[*resource.Pool](i); err != nil {
		return deps, err
	}
	if deps.Manager, err = do.Invoke[*workspace.Manager](i); err != nil {
		return deps, err
	}
	if deps.Ingestor, err = do.Invoke[*ingest.Ingestor](i); err != nil {
		return deps, err
	}
	if deps.AI, err = do.Invoke[*aifill.Service](i); err != nil {
		return deps, err
	}
	if deps.Exporter, err = do.Invoke[*export.Exporter](i); err != nil {
		return deps, err
	}
	if deps.Renderer, err = do.Invoke[rendering.Renderer](i); err != nil {
		return deps, err
	}
	if deps.Hub, err = do.Invoke[*live.Hub](i); err != nil {
		return deps, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return deps, err
	}
	deps.Subscriber = bus
	return deps, nil
}
