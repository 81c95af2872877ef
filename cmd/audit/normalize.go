package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/degreeaudit/internal/engine/hanson"
)

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <area.yaml>",
		Short: "Print the canonical form of an area file",
		Long: `Parse a Hanson area file, normalize every requirement into its
canonical shape and print the result as YAML. Malformed files are
reported with the path of the offending requirement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read area file: %w", err)
			}
			doc, err := hanson.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			out, err := hanson.Marshal(doc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
