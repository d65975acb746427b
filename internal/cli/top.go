package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"interview-practice-service/internal/config"
	"interview-practice-service/internal/domain"
	pgstore "interview-practice-service/internal/infra/postgres"
)

// NewTopCmd renders the ranked candidate dashboard in the terminal.
func NewTopCmd(configPath *string) *cobra.Command {
	var (
		search string
		asc    bool
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List completed interviews ranked by score",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd.Context(), *configPath, search, asc)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by candidate name or email")
	cmd.Flags().BoolVar(&asc, "asc", false, "sort lowest score first")
	return cmd
}

func runTop(ctx context.Context, configPath, search string, asc bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured; the candidate ledger lives in postgres")
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sort := domain.SortScoreDesc
	if asc {
		sort = domain.SortScoreAsc
	}
	entries, err := pgstore.NewLedger(pool).List(ctx, domain.LedgerQuery{Search: search, Sort: sort})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		color.Yellow("no completed interviews found")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Candidate", "Email", "Score", "Completed"})
	for i, entry := range entries {
		table.Append([]string{
			strconv.Itoa(i + 1),
			entry.Candidate.Name,
			entry.Candidate.Email,
			strconv.Itoa(entry.FinalScore),
			entry.CompletedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()

	best := entries[0]
	if asc {
		best = entries[len(entries)-1]
	}
	color.Green("top candidate: %s (%d/100)", best.Candidate.Name, best.FinalScore)
	return nil
}
