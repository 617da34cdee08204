package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kodiack/clair/internal/router"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Re-route items to their correct projects",
	Long: `Commands for content-based project routing.

Each item's title and body are scored against the pattern catalog; when
the winning project disagrees with the item's current assignment, the
project and client references are rewritten. Running twice in a row
reroutes nothing the second time.`,
}

var routeAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Route items in every destination table",
	Run: func(cmd *cobra.Command, args []string) {
		opts := routeOptions(cmd)

		p, err := initPipeline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		if opts.DryRun {
			fmt.Printf("%s\n", color.YellowString("DRY RUN MODE - No items will be rewritten"))
		}

		result, err := p.router.RouteAllTables(context.Background(), opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: routing failed: %v\n", err)
			os.Exit(1)
		}

		tables := make([]string, 0, len(result.Tables))
		for table := range result.Tables {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			r := result.Tables[table]
			fmt.Printf("  %-22s checked %3d, rerouted %d\n", table, r.Checked, r.Rerouted)
		}
		for table, msg := range result.Errors {
			fmt.Printf("  %-22s %s\n", table, color.RedString("error: %s", msg))
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("\n%s Rerouted %d item(s)\n", green("✓"), result.TotalRerouted)
	},
}

var routeTableCmd = &cobra.Command{
	Use:   "table <name>",
	Short: "Route items in a single destination table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := routeOptions(cmd)

		p, err := initPipeline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		result, err := p.router.RouteTable(context.Background(), args[0], opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s: checked %d, rerouted %d\n", args[0], result.Checked, result.Rerouted)
	},
}

var routePathCmd = &cobra.Command{
	Use:   "path <substring>",
	Short: "Route items whose origin path contains the substring",
	Long: `Targeted backfill: restricts the scan to items whose recorded
project_path contains the given substring. Useful after a repository
moves or a capture path was misconfigured.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := routeOptions(cmd)

		p, err := initPipeline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		result, err := p.router.RouteByPath(context.Background(), args[0], opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("path %q: rerouted %d item(s)\n", result.Path, result.Rerouted)
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <title> [body]",
	Short: "Classify a title/body pair without writing anything",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		body := ""
		if len(args) > 1 {
			body = args[1]
		}

		p, err := initPipeline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer p.Close()

		match, err := p.router.ClassifyOne(context.Background(), args[0], body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if match == nil {
			fmt.Println("no classification")
			return
		}
		fmt.Printf("project: %s (%s)\npattern: %q\n", match.ProjectName, match.ProjectID, match.MatchedPattern)
	},
}

func routeOptions(cmd *cobra.Command) router.Options {
	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return router.Options{Limit: limit, DryRun: dryRun}
}

func init() {
	for _, cmd := range []*cobra.Command{routeAllCmd, routeTableCmd, routePathCmd} {
		cmd.Flags().Int("limit", 0, "Maximum items to scan per table (0 = default)")
		cmd.Flags().Bool("dry-run", false, "Classify and count without writing")
	}
	routeCmd.AddCommand(routeAllCmd)
	routeCmd.AddCommand(routeTableCmd)
	routeCmd.AddCommand(routePathCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(classifyCmd)
}
