package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodiack/clair/internal/merge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Collapse near-duplicate items",
	Long: `Scan active items per project and merge near-duplicate titles.

The earliest item in a similarity cluster stays as the primary and
absorbs the later duplicates' descriptions; duplicates move to their
table's merged status with a back-reference to the primary. No record
is ever deleted.

Thresholds and batch limits come from CLAIR_MERGE_* environment
variables (see internal/merge for the full list).`,
}

var mergeTodosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Merge similar active todos",
	Run: func(cmd *cobra.Command, args []string) {
		runMerge("todos", func(ctx context.Context, m *merge.Merger) (*merge.Result, error) {
			return m.MergeTodos(ctx)
		})
	},
}

var mergeBugsCmd = &cobra.Command{
	Use:   "bugs",
	Short: "Merge similar active bugs",
	Run: func(cmd *cobra.Command, args []string) {
		runMerge("bugs", func(ctx context.Context, m *merge.Merger) (*merge.Result, error) {
			return m.MergeBugs(ctx)
		})
	},
}

var mergeAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Merge similar todos and bugs",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := initPipeline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		result, err := p.merger.MergeAll(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("todos: checked %d, merged %d\n", result.Todos.Checked, result.Todos.Merged)
		fmt.Printf("bugs:  checked %d, merged %d\n", result.Bugs.Checked, result.Bugs.Merged)

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("\n%s Merged %d duplicate(s)\n", green("✓"), result.TotalMerged)
	},
}

func runMerge(label string, fn func(context.Context, *merge.Merger) (*merge.Result, error)) {
	p, err := initPipeline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	result, err := fn(context.Background(), p.merger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: checked %d, merged %d\n", label, result.Checked, result.Merged)
}

func init() {
	mergeCmd.AddCommand(mergeTodosCmd)
	mergeCmd.AddCommand(mergeBugsCmd)
	mergeCmd.AddCommand(mergeAllCmd)
	rootCmd.AddCommand(mergeCmd)
}
