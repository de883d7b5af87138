package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/corpus-tools/textreuse/pkg/cli/config"
	"github.com/corpus-tools/textreuse/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var engineCfg config.Engine

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Resolve and validate the engine configuration without running",
		Flags:   engineCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			cfg, err := engineCfg.Configure(c)
			if err != nil {
				return goerr.Wrap(err, "configuration rejected")
			}

			logger.Info("Configuration is valid", "config", cfg)
			return nil
		},
	}
}
