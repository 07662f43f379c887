package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/secondlife/tailslide"
	"github.com/secondlife/tailslide/format"
	"github.com/secondlife/tailslide/internal/config"
	"github.com/secondlife/tailslide/internal/db"
	"github.com/secondlife/tailslide/mangle"
	"github.com/secondlife/tailslide/optimize"
)

type lintFlags struct {
	optimizeAll    bool
	foldConstants  bool
	pruneLocals    bool
	pruneGlobals   bool
	pruneFunctions bool

	pretty   bool
	tree     bool
	showDiff bool

	mangleFuncs   bool
	mangleGlobals bool
	mangleLocals  bool
	showUnmangled bool

	lenient bool
	record  bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	flags := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "lslint [patterns...]",
		Short: "Static analyzer and optimizer for scripts",
		Long: "lslint parses and analyzes each input script, reporting errors and\n" +
			"warnings. With optimization flags it folds constants and prunes unused\n" +
			"declarations; --pretty and --tree print the resulting program.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cfg, flags, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.optimizeAll, "optimize", "O", false, "Enable every optimization pass.")
	cmd.Flags().BoolVar(&flags.foldConstants, "fold-constants", false, "Fold constant expressions.")
	cmd.Flags().BoolVar(&flags.pruneLocals, "prune-locals", false, "Remove unused local variables.")
	cmd.Flags().BoolVar(&flags.pruneGlobals, "prune-globals", false, "Remove unused global variables.")
	cmd.Flags().BoolVar(&flags.pruneFunctions, "prune-functions", false, "Remove unreachable functions.")
	cmd.Flags().BoolVarP(&flags.pretty, "pretty", "p", false, "Print the analyzed script as source.")
	cmd.Flags().BoolVarP(&flags.tree, "tree", "t", false, "Print the syntax tree.")
	cmd.Flags().BoolVarP(&flags.showDiff, "diff", "D", false, "Show a unified diff against the unoptimized source.")
	cmd.Flags().BoolVar(&flags.mangleFuncs, "mangle-funcs", false, "Rename user functions to short names.")
	cmd.Flags().BoolVar(&flags.mangleGlobals, "mangle-globals", false, "Rename global variables to short names.")
	cmd.Flags().BoolVar(&flags.mangleLocals, "mangle-locals", false, "Rename locals, parameters and labels to short names.")
	cmd.Flags().BoolVar(&flags.showUnmangled, "show-unmangled", false, "Annotate mangled names with the originals.")
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "Allow global initializers to reference earlier globals.")
	cmd.Flags().BoolVar(&flags.record, "record", false, "Record this run in the history database.")
	return cmd
}

func runLint(cfg *config.Config, flags *lintFlags, patterns []string) error {
	files, err := expandPatterns(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match %v", patterns)
	}

	var store *db.Store
	if flags.record || cfg.RecordRuns {
		store, err = db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	totalErrors := 0
	for _, file := range files {
		errs, err := lintFile(cfg, flags, store, file)
		if err != nil {
			return err
		}
		totalErrors += errs
	}
	if totalErrors > 0 {
		os.Exit(1)
	}
	return nil
}

// expandPatterns resolves doublestar globs and literal paths, dropping
// duplicates while keeping a stable order.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matches == nil {
			// Not a glob; treat as a literal path so the read error is
			// reported with the filename.
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func lintFile(cfg *config.Config, flags *lintFlags, store *db.Store, path string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	script := tailslide.Parse(string(src))
	defer script.Release()
	script.Log().SetSort(cfg.SortDiagnostics)
	script.Log().SetShowInfo(cfg.ShowInfo)

	strict := cfg.StrictGlobals
	if flags.lenient {
		strict = false
	}
	script.Analyze(strict)

	opts := optimize.Options{
		FoldConstants:        flags.foldConstants || flags.optimizeAll,
		PruneUnusedLocals:    flags.pruneLocals || flags.optimizeAll,
		PruneUnusedGlobals:   flags.pruneGlobals || flags.optimizeAll,
		PruneUnusedFunctions: flags.pruneFunctions || flags.optimizeAll,
	}
	optimizing := opts.FoldConstants || opts.PruneUnusedLocals ||
		opts.PruneUnusedGlobals || opts.PruneUnusedFunctions

	var before string
	parsed := script.Root() != nil
	if parsed && script.Log().Errors() == 0 && optimizing {
		if flags.showDiff {
			before = script.PrettyPrint(format.PrettyOpts{})
		}
		script.Optimize(opts)
	}

	fmt.Fprintf(os.Stderr, "%s:\n", path)
	script.Log().WriteReport(os.Stderr)

	if parsed {
		script.MangleNames(mangle.Options{
			Functions: flags.mangleFuncs,
			Globals:   flags.mangleGlobals,
			Locals:    flags.mangleLocals,
		})
		prettyOpts := format.PrettyOpts{
			MangleFuncNames:   flags.mangleFuncs,
			MangleGlobalNames: flags.mangleGlobals,
			MangleLocalNames:  flags.mangleLocals,
			ShowUnmangled:     flags.showUnmangled,
		}
		switch {
		case flags.showDiff && optimizing:
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(before),
				B:        difflib.SplitLines(script.PrettyPrint(prettyOpts)),
				FromFile: path,
				ToFile:   path + " (optimized)",
				Context:  3,
			})
			if err != nil {
				return 0, err
			}
			fmt.Print(diff)
		case flags.pretty:
			fmt.Print(script.PrettyPrint(prettyOpts))
		case flags.tree:
			fmt.Print(script.TreeDump())
		}
	}

	if store != nil {
		rendered := make([]string, 0, len(script.Log().Messages()))
		for _, m := range script.Log().Messages() {
			rendered = append(rendered, m.String())
		}
		_, err := store.RecordRun(path, parsed, optimizing,
			script.Log().Errors(), script.Log().Warnings(), rendered)
		if err != nil {
			return 0, err
		}
	}

	return script.Log().Errors(), nil
}

func newRunsCmd(cfg *config.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded lint runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Printf("%s  %s  errors=%d warnings=%d\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"), run.Path, run.Errors, run.Warnings)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list.")
	return cmd
}
