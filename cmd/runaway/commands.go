package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"runaway-service/internal/analytics"
	"runaway-service/internal/dataset"
	"runaway-service/internal/logging"
	"runaway-service/internal/models"
	"runaway-service/internal/store"
)

// rootOptions глобальные флаги
type rootOptions struct {
	dataPath   string
	resultPath string
	output     string
	logLevel   string
	refine     bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "runaway",
		Short:         "Thermal runaway trigger temperature estimation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(opts.output); err != nil {
				return err
			}
			logger, err := logging.New(opts.logLevel, false)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dataPath, "data", "battery_data_failure.csv", "path to the trigger event dataset (CSV)")
	flags.StringVar(&opts.resultPath, "result", "trigger_temp_results.json", "path to the persisted estimation result")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.refine, "refine", false, "refine the grid mode with golden-section search")

	rootCmd.AddCommand(
		newEstimateCmd(opts),
		newModeCmd(opts),
		newRiskCmd(opts),
		newCurveCmd(opts),
		newGroupsCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) estimator(st store.ResultStore) *analytics.Estimator {
	var eo []analytics.EstimatorOption
	if o.refine {
		eo = append(eo, analytics.WithRefinedMode())
	}
	return analytics.NewEstimator(st, o.logger, eo...)
}

func (o *rootOptions) records() ([]models.EventRecord, error) {
	return dataset.LoadCSV(o.dataPath)
}

func newEstimateCmd(opts *rootOptions) *cobra.Command {
	var cellType, trigger string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the most likely trigger temperature and persist the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.records()
			if err != nil {
				return err
			}
			est, err := opts.estimator(store.NewFileStore(opts.resultPath)).Run(cmd.Context(), records, cellType, trigger)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, est.ModeEstimate, func() string {
				return est.Message
			})
		},
	}
	cmd.Flags().StringVar(&cellType, "cell", "", "cell description, exact match")
	cmd.Flags().StringVar(&trigger, "trigger", "", "trigger mechanism, exact match")
	_ = cmd.MarkFlagRequired("cell")
	_ = cmd.MarkFlagRequired("trigger")
	return cmd
}

func newModeCmd(opts *rootOptions) *cobra.Command {
	var cellType, trigger string

	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Compute the mode estimate without persisting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.records()
			if err != nil {
				return err
			}
			estimate, err := opts.estimator(nil).ComputeModeEstimate(records, cellType, trigger)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, estimate, func() string {
				return fmt.Sprintf("mode: %.2f°C (n=%d)", estimate.Mode, estimate.SampleSize)
			})
		},
	}
	cmd.Flags().StringVar(&cellType, "cell", "", "cell description, exact match")
	cmd.Flags().StringVar(&trigger, "trigger", "", "trigger mechanism, exact match")
	_ = cmd.MarkFlagRequired("cell")
	_ = cmd.MarkFlagRequired("trigger")
	return cmd
}

func newRiskCmd(opts *rootOptions) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Probability that the trigger temperature exceeds a threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := analytics.NewRiskEngine(store.NewFileStore(opts.resultPath), opts.logger)
			risk, err := engine.AssessRisk(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, risk, func() string {
				return fmt.Sprintf("P(T > %.2f°C) = %.4f (%s risk)", risk.Threshold, risk.Probability, risk.Tier)
			})
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "temperature threshold in °C")
	_ = cmd.MarkFlagRequired("threshold")
	return cmd
}

func newCurveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Print the density curve of the persisted model",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := analytics.NewRiskEngine(store.NewFileStore(opts.resultPath), opts.logger)
			curve, err := engine.Curve(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, curve, func() string {
				return curveTable(curve)
			})
		},
	}
}

func newGroupsCmd(opts *rootOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List every cell type and trigger mechanism with its mode estimate",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.records()
			if err != nil {
				return err
			}
			summaries, err := opts.estimator(nil).Survey(cmd.Context(), records, workers)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, summaries, func() string {
				return groupsTable(summaries)
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "number of groups estimated concurrently")
	return cmd
}
