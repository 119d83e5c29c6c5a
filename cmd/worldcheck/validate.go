package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-protocol/world"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a world definition file",
	Long: `Validate loads a world definition, reports every data mistake it can
find, and attempts a full build. The file is good when both pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	path := args[0]

	def, err := world.LoadDefinition(path)
	if err != nil {
		return err
	}

	if err := def.Validate(); err != nil {
		return err
	}

	w, err := def.Build(nil)
	if err != nil {
		return err
	}

	log.Info("world definition is valid",
		"file", path,
		"stats", len(w.Graph().Names()),
		"entities", len(w.EntityIDs()),
		"areas", len(w.AreaNames()))
	return nil
}
