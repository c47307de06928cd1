package main

import (
	"context"
	"strings"
	"sync"

	"tubeshelf/agents/tubeshelf"
	"tubeshelf/shared/config"
)

type commandContext struct {
	configFlag  *string
	dataDirFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	manager *tubeshelf.Manager
	options []tubeshelf.Option
}

func newCommandContext(configFlag, dataDirFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		dataDirFlag: dataDirFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var (
			cfg *config.Config
			err error
		)
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			cfg, err = config.LoadFile(path)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			c.configErr = err
			return
		}
		if dir := strings.TrimSpace(*c.dataDirFlag); dir != "" {
			cfg.Storage.Path = dir
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// open returns the Manager, opening it on first use.
func (c *commandContext) open(ctx context.Context) (*tubeshelf.Manager, error) {
	if c.manager != nil {
		return c.manager, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	m, err := tubeshelf.Open(ctx, cfg, c.options...)
	if err != nil {
		return nil, err
	}
	c.manager = m
	return m, nil
}

func (c *commandContext) close() error {
	if c.manager == nil {
		return nil
	}
	err := c.manager.Close()
	c.manager = nil
	return err
}
