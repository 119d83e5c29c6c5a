package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-protocol/world"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the entities and resolved stat blocks of a world definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	path := args[0]

	def, err := world.LoadDefinition(path)
	if err != nil {
		return err
	}

	w, err := def.Build(nil)
	if err != nil {
		return err
	}

	log.Info("world definition loaded",
		"file", path,
		"stats", len(w.Graph().Names()),
		"entities", len(w.EntityIDs()),
		"areas", len(w.AreaNames()))

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Stats:")
	for _, name := range w.Graph().Names() {
		value, verr := w.Graph().FullValue(name)
		if verr != nil {
			return verr
		}
		source, serr := w.Graph().Source(name)
		if serr != nil {
			return serr
		}
		if source == "" {
			fmt.Fprintf(out, "  %-12s %v\n", name, value)
		} else {
			fmt.Fprintf(out, "  %-12s %v (derived from %s)\n", name, value, source)
		}
	}

	fmt.Fprintln(out, "\nEntities:")
	for _, id := range w.EntityIDs() {
		e, eerr := w.Entity(id)
		if eerr != nil {
			return eerr
		}
		fmt.Fprintf(out, "  %s (%s) %q", id, e.Kind, e.Name)
		if e.KillReward > 0 {
			fmt.Fprintf(out, " reward=%d", e.KillReward)
		}
		fmt.Fprintln(out)
		for _, skillName := range sortedKeys(e.Skills) {
			level, lerr := e.LevelIn(skillName)
			if lerr != nil {
				return lerr
			}
			fmt.Fprintf(out, "    %s: level %d (%d exp)\n", skillName, level, e.SkillExperience[skillName])
		}
		fmt.Fprintf(out, "    stats: %s\n", formatStats(e.Stats))
	}

	fmt.Fprintln(out, "\nAreas:")
	for _, name := range w.AreaNames() {
		area, aerr := w.Area(name)
		if aerr != nil {
			return aerr
		}
		fmt.Fprintf(out, "  %s (%d entities)\n", name, len(area.Entities))
		for _, item := range area.Portals() {
			p := item.Portal
			lock := ""
			if p.Locked() {
				lock = fmt.Sprintf(", key %q", p.Key.Name)
			}
			fmt.Fprintf(out, "    %s -> %s%s\n", item.Name, p.LeadsTo.Name, lock)
		}
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatStats(statValues map[string]float64) string {
	parts := make([]string, 0, len(statValues))
	for _, name := range sortedKeys(statValues) {
		parts = append(parts, fmt.Sprintf("%s=%v", name, statValues[name]))
	}
	return strings.Join(parts, " ")
}
