package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate"
	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate/trace"
)

var (
	// CLI flags shared across subcommands
	logLevel    string // Log verbosity level
	configPath  string // Optional YAML policy config overriding defaults
	backendName string // Backend name reported by the device stub

	// decide flags
	circuitPath     string // YAML transpiled circuit
	calibrationPath string // YAML calibration snapshot
	observable      string // Pauli observable for the pub
	mode            string // Execution mode: single, batch, session
	showRationale   bool   // Print the full rule-by-rule audit trail
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "adaptive-error-mitigation",
	Short: "Adaptive error-mitigation strategy selection for quantum jobs",
}

// decideCmd runs the decision pipeline for one circuit against one
// calibration snapshot and prints the selected strategy and estimator
// options.
var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Select mitigation techniques for a transpiled circuit",
	Run: func(cmd *cobra.Command, args []string) {
		setUpLogging()
		cfg := loadPolicyConfig(configPath)

		circuit, err := loadCircuit(circuitPath)
		if err != nil {
			logrus.Fatalf("Unable to read circuit: %v", err)
		}
		cal, err := loadCalibration(calibrationPath)
		if err != nil {
			logrus.Fatalf("Unable to read calibration data: %v", err)
		}
		if !mitigate.IsValidMode(mitigate.ExecutionMode(mode)) {
			logrus.Fatalf("Invalid execution mode %q (single, batch, session)", mode)
		}

		backend := mitigate.NewDeviceStub(backendName, cal)
		orch, err := mitigate.NewOrchestrator(backend, cfg)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		orch.WithTrace(trace.New(trace.Config{Level: trace.LevelDecisions}))

		pub := mitigate.Pub{Circuit: circuit, Observable: observable}
		results, err := orch.Run(cmd.Context(), []mitigate.Pub{pub}, mitigate.ExecutionMode(mode))
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		res := results[0]
		if res.Err != nil {
			logrus.Fatalf("Decision pipeline failed: %v", res.Err)
		}

		out := decideOutput{
			JobID:      res.Record.JobID,
			Techniques: res.Record.Decision.Techniques,
			Options:    res.Record.Options,
		}
		if showRationale {
			out.Rationale = res.Record.Decision.Rationale
		}
		encoded, err := yaml.Marshal(out)
		if err != nil {
			logrus.Fatalf("Unable to encode decision: %v", err)
		}
		cmd.OutOrStdout().Write(encoded)
	},
}

// decideOutput is the YAML shape printed by the decide subcommand.
type decideOutput struct {
	JobID      string                    `yaml:"job_id"`
	Techniques []mitigate.Technique      `yaml:"techniques"`
	Rationale  []mitigate.RuleOutcome    `yaml:"rationale,omitempty"`
	Options    mitigate.EstimatorOptions `yaml:"estimator_options"`
}

func setUpLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML policy config (thresholds, weights, technique defaults)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "line-7q", "Backend name")

	decideCmd.Flags().StringVar(&circuitPath, "circuit", "", "YAML transpiled circuit file")
	decideCmd.Flags().StringVar(&calibrationPath, "calibration", "", "YAML calibration snapshot file")
	decideCmd.Flags().StringVar(&observable, "observable", "Z", "Pauli observable for the pub")
	decideCmd.Flags().StringVar(&mode, "mode", "single", "Execution mode (single, batch, session)")
	decideCmd.Flags().BoolVar(&showRationale, "rationale", false, "Include the rule-by-rule audit trail in the output")
	decideCmd.MarkFlagRequired("circuit")
	decideCmd.MarkFlagRequired("calibration")

	// Attach subcommands to `root`
	rootCmd.AddCommand(decideCmd)
	rootCmd.AddCommand(benchCmd)
}
