package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kapu/anti-portfolio-go/internal/manifest"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

func newValidateCmd() *cobra.Command {
	var normalize bool
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a dna.json against the manifest schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			m, err := manifest.Import(raw)
			if err != nil {
				if field := errors.Field(err); field != "" {
					return fmt.Errorf("invalid manifest at %s: %s", field, errors.Message(err))
				}
				return err
			}

			printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("%s is a valid manifest for %q", args[0], m.Name))
			if !normalize {
				return nil
			}
			data, err := manifest.Export(m)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&normalize, "print", false, "Print the normalized manifest")
	return cmd
}
