package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/gradeboard/internal/app"
	"github.com/okian/gradeboard/internal/config"
	"github.com/okian/gradeboard/pkg/logger"
)

type rootFlags struct {
	config  string
	dataDir string
	json    bool
	verbose bool
}

type commandContext struct {
	flags *rootFlags
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) loadConfig(ctx context.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := strings.TrimSpace(c.flags.config); path != "" {
		cfg, err = config.LoadFile(ctx, path)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}
	if dir := strings.TrimSpace(c.flags.dataDir); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// withService runs fn against a started service and stops it afterwards.
func (c *commandContext) withService(cmd *cobra.Command, fn func(*service.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return err
	}

	log := logger.Nop()
	if c.flags.verbose {
		if err := logger.InitWithWriter(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
			return err
		}
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			return err
		}
		log = logger.Named("gradectl")
	}

	svc := service.New(service.ConfigOptions(cfg, log)...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("open data dir %s: %w", cfg.DataDir, err)
	}
	defer svc.Stop()
	return fn(svc)
}
