package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/cli/config"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/service/ingest"
	"github.com/risklens-dev/risklens/pkg/usecase"
	"github.com/risklens-dev/risklens/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var findingsPath string
	var policyPath string
	var archive bool
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "findings",
			Aliases:     []string{"f"},
			Usage:       "Path to findings JSON document (defaults to stdin)",
			Sources:     cli.EnvVars("RISKLENS_FINDINGS"),
			Destination: &findingsPath,
		},
		&cli.StringFlag{
			Name:        "policy",
			Aliases:     []string{"p"},
			Usage:       "Path to TOML risk policy (built-in defaults when omitted)",
			Sources:     cli.EnvVars("RISKLENS_POLICY"),
			Destination: &policyPath,
		},
		&cli.BoolFlag{
			Name:        "archive",
			Usage:       "Archive a forecast snapshot of the resulting register",
			Sources:     cli.EnvVars("RISKLENS_ARCHIVE"),
			Destination: &archive,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Run one risk assessment over a findings document",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			crit, err := config.LoadPolicy(policyPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load risk policy")
			}

			var findings []model.RawFinding
			if findingsPath != "" {
				findings, err = ingest.ReadFile(ctx, findingsPath)
			} else {
				findings, err = ingest.Read(os.Stdin)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read findings")
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

			var opts []usecase.Option
			if notifier, err := slackCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to configure Slack notification")
			} else if notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}

			uc := usecase.New(repo, crit, opts...)
			reg, err := uc.Assess.Execute(ctx, usecase.AssessInput{
				Findings: findings,
				Archive:  archive,
			})
			if err != nil {
				return err
			}

			renderRegister(os.Stdout, reg)
			return nil
		},
	}
}

func levelPrinter(level types.RiskLevel) *color.Color {
	switch level {
	case types.RiskLevelExtreme:
		return color.New(color.FgRed, color.Bold)
	case types.RiskLevelHigh:
		return color.New(color.FgRed)
	case types.RiskLevelMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func renderRegister(w *os.File, reg *model.RiskRegister) {
	header := color.New(color.Bold)
	_, _ = header.Fprintf(w, "Risk Register %s (%s)\n", reg.ID, reg.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  %d risk(s), %d finding(s) dropped\n", len(reg.Risks), reg.DroppedFindings)
	fmt.Fprintf(w, "  mean %.2f / median %.2f / max %.2f / total exposure %.2f\n\n",
		reg.Stats.MeanScore, reg.Stats.MedianScore, reg.Stats.MaxScore, reg.Stats.TotalExposure)

	for _, level := range types.AllRiskLevels() {
		if n := reg.Stats.CountByLevel[level]; n > 0 {
			_, _ = levelPrinter(level).Fprintf(w, "  %-8s %d\n", level, n)
		}
	}
	fmt.Fprintln(w)

	for _, er := range reg.Risks {
		_, _ = levelPrinter(er.Level).Fprintf(w, "  #%-3d [%s]", er.PriorityRank, er.Level)
		fmt.Fprintf(w, " %s on %s", er.Event.Cause, er.Event.AssetRef)
		fmt.Fprintf(w, "  score=%.2f residual=%.2f treatment=%s", er.NumericScore, er.ResidualScore, er.Treatment)
		if er.Systemic {
			fmt.Fprint(w, " [systemic]")
		}
		if er.Event.CVE != "" {
			fmt.Fprintf(w, " (%s)", er.Event.CVE)
		}
		fmt.Fprintln(w)
	}

	if reg.MostVulnerableAsset != "" {
		fmt.Fprintf(w, "\nMost vulnerable asset: %s\n", reg.MostVulnerableAsset)
	}
}
