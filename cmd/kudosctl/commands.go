package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"autokudos/internal/application/orchestrators"
	"autokudos/internal/application/projections"
)

func newDedupeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Keep only the fastest result per runner and race date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := orchestrators.ExecuteDeduplicateResults(cmd.Context(), c.raceLogDeps())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d duplicate results (%d left)\n", res.Original-res.Final, res.Final)
			return nil
		},
	}
}

func newWipeResultsCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe-results",
		Short: "Delete every approved result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := orchestrators.ExecuteWipeResults(cmd.Context(), yes, c.raceLogDeps()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all results deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newClearStandingsCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-standings",
		Short: "Delete every championship standings entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := orchestrators.ExecuteClearStandings(cmd.Context(), yes, c.championshipDeps()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "championship standings cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newAssignIDsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "assign-ids",
		Short: "Give every stored record without an id a fresh one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := orchestrators.ExecuteAssignIDs(cmd.Context(), orchestrators.AssignIDsDeps{
				Members:      c.stores.Members,
				Results:      c.stores.Results,
				Pending:      c.stores.Pending,
				ChampPending: c.stores.ChampPending,
				Standings:    c.stores.ChampStandings,
				GenerateID:   c.generateID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assigned %d ids (members %d, results %d, pending %d, championship pending %d, standings %d)\n",
				res.Total(), res.Members, res.Results, res.Pending, res.ChampPending, res.Standings)
			return nil
		},
	}
}

func newImportCmd(c *cli) *cobra.Command {
	var dryRun, update bool
	cmd := &cobra.Command{
		Use:       "import {members|results|championship} FILE",
		Short:     "Import records from a CSV file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"members", "results", "championship"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx := cmd.Context()
			var summary any
			switch args[0] {
			case "members":
				summary, err = orchestrators.ExecuteImportMembers(ctx, orchestrators.ImportMembersInput{
					Reader: f, DryRun: dryRun, UpdateMode: update,
				}, orchestrators.ImportMembersDeps{Members: c.stores.Members, GenerateID: c.generateID})
			case "results":
				summary, err = orchestrators.ExecuteImportResults(ctx, orchestrators.ImportResultsInput{
					Reader: f, DryRun: dryRun,
				}, orchestrators.ImportResultsDeps{
					Members: c.stores.Members, Results: c.stores.Results, GenerateID: c.generateID,
				})
			case "championship":
				summary, err = orchestrators.ExecuteImportChampionship(ctx, orchestrators.ImportChampionshipInput{
					Reader: f, DryRun: dryRun,
				}, orchestrators.ImportChampionshipDeps{Standings: c.stores.ChampStandings, GenerateID: c.generateID})
			default:
				return fmt.Errorf("unknown import kind %q (want members, results or championship)", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without writing")
	cmd.Flags().BoolVar(&update, "update", false, "update members that already exist (members only)")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var table bool
	var output string
	cmd := &cobra.Command{
		Use:       "export {results|members|standings}",
		Short:     "Write records as CSV",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"results", "members", "standings"},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			w, closeOut, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeOut(); err == nil {
					err = cerr
				}
			}()

			ctx := cmd.Context()
			switch args[0] {
			case "results":
				return projections.ExportResultsCSV(ctx, w, c.stores.Results)
			case "members":
				return projections.ExportMembersCSV(ctx, w, c.stores.Members)
			case "standings":
				if table {
					return projections.ExportStandingsTableCSV(ctx, w, c.stores.ChampStandings)
				}
				return projections.ExportStandingsCSV(ctx, w, c.stores.ChampStandings)
			default:
				return fmt.Errorf("unknown export kind %q (want results, members or standings)", args[0])
			}
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "standings: write totals per runner instead of the master log")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func newLeaderboardCmd(c *cli) *cobra.Command {
	var q projections.GetLeaderboardQuery
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print category leaders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := projections.QueryGetLeaderboard(cmd.Context(), q, projections.GetLeaderboardDeps{
				Results:  c.stores.Results,
				Members:  c.stores.Members,
				Settings: c.stores.Settings,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range board.Boards {
				for _, g := range d.Genders {
					fmt.Fprintf(tw, "%s %s\n", d.Distance, g.Gender)
					for _, l := range g.Leaders {
						name := l.Name
						if l.Ghosted {
							name += " (left)"
						}
						fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", l.Category, name, l.TimeDisplay, l.RaceDate, l.Location)
					}
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&q.Distance, "distance", "", "only this distance (e.g. 5k)")
	cmd.Flags().StringVar(&q.Gender, "gender", "", "only this gender")
	cmd.Flags().IntVar(&q.Season, "season", 0, "race-date year; 0 for all-time")
	return cmd
}
