package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/cli/config"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/usecase"
	"github.com/risklens-dev/risklens/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdForecast() *cli.Command {
	var policyPath string
	var horizon int
	var window int
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Aliases:     []string{"p"},
			Usage:       "Path to TOML risk policy (built-in defaults when omitted)",
			Sources:     cli.EnvVars("RISKLENS_POLICY"),
			Destination: &policyPath,
		},
		&cli.IntFlag{
			Name:        "horizon",
			Usage:       "Number of future periods to project",
			Value:       3,
			Sources:     cli.EnvVars("RISKLENS_FORECAST_HORIZON"),
			Destination: &horizon,
		},
		&cli.IntFlag{
			Name:        "window",
			Usage:       "Trailing snapshot window for the trend slope (0 uses the policy window)",
			Sources:     cli.EnvVars("RISKLENS_FORECAST_WINDOW"),
			Destination: &window,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "forecast",
		Aliases: []string{"f"},
		Usage:   "Project the risk trend from archived snapshots",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			crit, err := config.LoadPolicy(policyPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load risk policy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, crit)
			proj, err := uc.Forecast.Execute(ctx, horizon, window)
			if errors.Is(err, types.ErrInsufficientHistory) {
				fmt.Fprintln(os.Stdout, "Not enough snapshot history to forecast: archive at least two assessments first")
				return nil
			}
			if err != nil {
				return err
			}

			renderProjection(os.Stdout, proj)
			return nil
		},
	}
}

func trendPrinter(d types.TrendDirection) *color.Color {
	switch d {
	case types.TrendWorsening:
		return color.New(color.FgRed, color.Bold)
	case types.TrendImproving:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgYellow)
	}
}

func renderProjection(w *os.File, proj *model.TrendProjection) {
	header := color.New(color.Bold)
	_, _ = header.Fprintf(w, "Risk Trend Forecast (%s)\n", proj.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprint(w, "  direction: ")
	_, _ = trendPrinter(proj.Direction).Fprintln(w, proj.Direction.String())
	fmt.Fprintf(w, "  change rate: %+.3f per period (window %d)\n", proj.ChangeRate, proj.Window)

	for i, score := range proj.ProjectedMeanScores {
		fmt.Fprintf(w, "  +%d period(s): mean score %.2f\n", i+1, score)
	}

	if len(proj.ExploitEstimates) > 0 {
		fmt.Fprintln(w, "\nOpen severe risks:")
		for _, est := range proj.ExploitEstimates {
			_, _ = levelPrinter(est.Level).Fprintf(w, "  [%s]", est.Level)
			fmt.Fprintf(w, " %s  open for %s  exploit window: %s\n",
				est.EventID, formatDuration(est.PersistedFor), est.Band)
		}
	}

	for _, rec := range proj.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
}

func formatDuration(d time.Duration) string {
	if days := int(d.Hours() / 24); days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return d.Truncate(time.Minute).String()
}
