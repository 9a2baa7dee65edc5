package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kapu/anti-portfolio-go/internal/service/fallback"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed TEXT...",
		Short: "Show the seed and visual DNA procedural generation derives from text",
		Long: `Fold TEXT the same way the procedural generator folds the questionnaire's
interests, hated trends, bio and projects, and print the resulting DNA.

Examples:
  dna seed "abc"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob := strings.ToLower(strings.Join(args, " "))
			seed := fallback.Seed(blob)
			dna := fallback.VisualDNAForSeed(seed)

			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan, color.Bold)
			cyan.Fprintln(out, "Visual DNA")

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "seed\t%d\n", seed)
			fmt.Fprintf(tw, "geometry\t%s\n", dna.GeometryType)
			fmt.Fprintf(tw, "material\t%s\n", dna.MaterialType)
			fmt.Fprintf(tw, "texture\t%s\n", dna.TextureStyle)
			fmt.Fprintf(tw, "speed\t%s\n", dna.MovementSpeed)
			fmt.Fprintf(tw, "primary\t%s\n", dna.Colors.Primary)
			fmt.Fprintf(tw, "secondary\t%s\n", dna.Colors.Secondary)
			fmt.Fprintf(tw, "bg\t%s\n", dna.Colors.Bg)
			if link := fallback.ExtractLink(blob); link != "" {
				fmt.Fprintf(tw, "link\t%s\n", link)
			}
			return tw.Flush()
		},
	}
}
