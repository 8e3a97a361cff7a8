package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tribalctl/scripted-ai/config"
	"github.com/tribalctl/scripted-ai/persist"
)

func newValidateCmd() *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Decode a tuning config (and optionally a role catalog) and report errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doValidate(cmd, args[0], catalogPath)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "also validate a persisted role catalog JSON file")
	return cmd
}

func doValidate(cmd *cobra.Command, configPath, catalogPath string) error {
	root, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config %q: OK (%d team overrides, weight tiers early/mid/late set: %v/%v/%v)\n",
		configPath, len(root.Difficulty),
		root.Weights.Early != (config.WeightTier{}),
		root.Weights.Mid != (config.WeightTier{}),
		root.Weights.Late != (config.WeightTier{}),
	)

	if catalogPath == "" {
		return nil
	}
	cat, err := persist.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "catalog %q: OK (%d roles, %d behaviors, nextNameId=%d)\n",
		catalogPath, len(cat.Roles), len(cat.Behaviors), cat.NextNameID)
	return nil
}
