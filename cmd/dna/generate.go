package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/app"
	"github.com/kapu/anti-portfolio-go/internal/config"
	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/internal/manifest"
	"github.com/kapu/anti-portfolio-go/internal/prompt"
	"github.com/kapu/anti-portfolio-go/internal/service/generator"
	"github.com/kapu/anti-portfolio-go/internal/util"
)

type generateOptions struct {
	input   string
	out     string
	offline bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a manifest from questionnaire answers",
		Long: `Read a flat questionnaire JSON object and produce an identity manifest.

Examples:
  # Use the configured model, falling back procedurally on any failure
  dna generate --input answers.json --out dna.json

  # Skip the model entirely
  dna generate --input answers.json --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Questionnaire JSON file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write dna.json here instead of stdout")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Use procedural generation only")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	raw, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var input domain.QuestionnaireInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("input is not a questionnaire JSON object: %w", err)
	}
	if !input.HasName() {
		return fmt.Errorf("%s is required", domain.FieldFullName)
	}

	svc, logger, err := newCLIGenerator(cmd, opts.offline)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gen := svc.Generate(cmd.Context(), input)

	data, err := manifest.Export(gen.Manifest)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if gen.UsedFallback() {
		printWarning(stderr, fmt.Sprintf("procedural fallback used (%s)", gen.Cause))
	} else {
		printSuccess(stderr, fmt.Sprintf("generated by %s %s", gen.Provider, gen.Model))
	}

	if opts.out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	printSuccess(stderr, "wrote "+opts.out)
	return nil
}

func newCLIGenerator(cmd *cobra.Command, offline bool) (*generator.Service, *zap.Logger, error) {
	if offline {
		logger := zap.NewNop()
		return generator.NewService(nil, prompt.DefaultPromptBuilder(), nil, logger), logger, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := util.NewLogger(util.LoggerOptions{
		Level:  cfg.Logging.Level,
		File:   cfg.Logging.File,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	svc, _, err := app.BuildGenerator(cmd.Context(), cfg, nil, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}
