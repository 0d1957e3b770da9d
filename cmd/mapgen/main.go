// mapgen prints saved layouts as ASCII maps, from a layout YAML file or from
// the run database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lawnchairsociety/tilegen/internal/config"
	"github.com/lawnchairsociety/tilegen/internal/database"
	"github.com/lawnchairsociety/tilegen/internal/layout"
)

func main() {
	inputFile := flag.String("input", "", "Path to a layout YAML file")
	appFile := flag.String("app", "tilegen.yaml", "Path to application config (for -run and -list)")
	runID := flag.Int64("run", 0, "Render a stored run by id")
	list := flag.Int("list", 0, "List the N most recent stored runs and exit")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	var output strings.Builder

	switch {
	case *list > 0:
		db := openDatabase(*appFile)
		defer db.Close()
		runs, err := db.ListRuns(*list)
		if err != nil {
			fatal("Error listing runs: %v", err)
		}
		writeRunList(&output, runs)

	case *runID > 0:
		db := openDatabase(*appFile)
		defer db.Close()
		l, err := db.GetRun(*runID)
		if err != nil {
			fatal("Error loading run %d: %v", *runID, err)
		}
		if err := renderLayout(&output, l, *showLegend); err != nil {
			fatal("Error rendering run: %v", err)
		}

	case *inputFile != "":
		l, err := layout.ReadYAML(*inputFile)
		if err != nil {
			fatal("Error reading layout: %v", err)
		}
		if err := renderLayout(&output, l, *showLegend); err != nil {
			fatal("Error rendering layout: %v", err)
		}

	default:
		flag.Usage()
		os.Exit(2)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fatal("Error writing output file: %v", err)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func openDatabase(appFile string) *database.Database {
	appCfg, err := config.LoadAppConfig(appFile)
	if err != nil {
		fatal("Error loading app config: %v", err)
	}
	db, err := database.OpenWithConfig(database.FromAppConfig(appCfg.Database))
	if err != nil {
		fatal("Error opening database: %v", err)
	}
	return db
}

func renderLayout(w io.Writer, l *layout.Layout, legend bool) error {
	fmt.Fprintf(w, "Layout %dx%d (Seed: %d, Strategy: %s)\n", l.Size, l.Size, l.Seed, l.Strategy)
	if !l.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "Generated: %s\n", l.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Placed %d, contradictions %d, unresolved %d, iterations %d\n",
		l.Stats.Placed, l.Stats.Contradictions, l.Stats.Unresolved, l.Stats.Iterations)
	fmt.Fprintf(w, "Digest: %s\n", l.Digest())
	io.WriteString(w, strings.Repeat("=", 40)+"\n")
	return layout.RenderASCII(w, l, legend)
}

func writeRunList(w io.Writer, runs []*database.RunSummary) {
	fmt.Fprintf(w, "%-6s %-7s %-14s %-20s %-8s %s\n", "ID", "SIZE", "STRATEGY", "SEED", "PLACED", "DIGEST")
	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-7s %-14s %-20d %-8d %s\n",
			r.ID, fmt.Sprintf("%dx%d", r.Size, r.Size), r.Strategy, r.Seed, r.Stats.Placed, r.Digest[:12])
	}
}
