package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/anvil-dev/anvil/internal/bom"
	"github.com/anvil-dev/anvil/internal/executor"
	"github.com/anvil-dev/anvil/internal/extension"
	"github.com/anvil-dev/anvil/internal/manifest"
	"github.com/anvil-dev/anvil/internal/registry"
	"github.com/anvil-dev/anvil/internal/resolver"
	"github.com/anvil-dev/anvil/internal/userdata"
)

// services bundles the stores and engines most commands need. Profiles are
// optional: a missing profiles file only matters to commands that use it.
type services struct {
	reg      *registry.Registry
	profiles *registry.Profiles
	loader   *extension.Loader
	mgr      *manifest.Manager
	tracker  *bom.Tracker
	res      *resolver.Resolver
	exec     *executor.Executor
	logger   *log.Logger
}

func loadServices() (*services, error) {
	regPath, err := userdata.GetRegistryPath()
	if err != nil {
		return nil, err
	}
	reg, err := registry.Load(regPath)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	extRoot, err := userdata.GetExtensionsRoot()
	if err != nil {
		return nil, err
	}
	manifestPath, err := userdata.GetManifestPath()
	if err != nil {
		return nil, err
	}
	bomResolvedPath, err := userdata.GetBomResolvedPath()
	if err != nil {
		return nil, err
	}

	level := log.InfoLevel
	if rootVerbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "anvil",
		Level:  level,
	})

	loader := extension.NewLoader(extRoot)
	mgr := manifest.NewManager(manifestPath, logger)
	tracker := bom.NewTracker(bomResolvedPath)

	s := &services{
		reg:     reg,
		loader:  loader,
		mgr:     mgr,
		tracker: tracker,
		res:     resolver.New(reg),
		exec:    executor.New(loader, reg, mgr, tracker, logger),
		logger:  logger,
	}

	if profilesPath, err := userdata.GetProfilesPath(); err == nil {
		if profiles, err := registry.LoadProfiles(profilesPath); err == nil {
			s.profiles = profiles
		}
	}
	return s, nil
}
