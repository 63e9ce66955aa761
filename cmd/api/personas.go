package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "Print the persona listing",
	Long: `Print the personas exposed by GET /api/personas as indented JSON.

System prompts are never printed. Set PERSONAS_FILE to list a custom
persona document instead of the built-in set.`,
	RunE: listPersonas,
}

func init() {
	rootCmd.AddCommand(personasCmd)
}

func listPersonas(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := loadPersonas(cfg.Personas)
	if err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"personas": store.List()})
}
