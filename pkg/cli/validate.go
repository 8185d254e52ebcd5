package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/cli/config"
	"github.com/risklens-dev/risklens/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var policyPath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a TOML risk policy without running an assessment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "policy",
				Aliases:     []string{"p"},
				Usage:       "Path to TOML risk policy",
				Required:    true,
				Sources:     cli.EnvVars("RISKLENS_POLICY"),
				Destination: &policyPath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			crit, err := config.LoadPolicy(policyPath)
			if err != nil {
				return goerr.Wrap(err, "policy validation failed")
			}

			logger.Info("Policy validation passed",
				"path", policyPath,
				"risk_appetite", crit.RiskAppetite,
				"tolerance_bands", len(crit.ToleranceBands),
				"likelihood_bands", len(crit.LikelihoodScale),
				"consequence_bands", len(crit.ConsequenceScale),
				"insurable_causes", len(crit.InsurableCauses),
				"forecast_window", crit.ForecastWindow,
			)
			return nil
		},
	}
}
