package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"intakeflow/internal/config"
	"intakeflow/internal/database"
	"intakeflow/internal/domain"
	"intakeflow/internal/domain/dashboard"
	"intakeflow/internal/domain/firm"
	"intakeflow/internal/domain/lead"
	"intakeflow/internal/domain/scoring"
	"intakeflow/internal/logger"
	"intakeflow/internal/pkg/jwt"
)

// --- Flags ---
var (
	firmIdent        string
	tokenSubject     string
	draftFile        string
	enforceMinBudget bool

	seedSlug   string
	seedName   string
	seedEmail  string
	seedStates []string
	seedLeads  int
	seedRandom int64

	rootCmd = &cobra.Command{
		Use:          "intakectl",
		Short:        "Operator tooling for the intake service",
		SilenceUsage: true,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create a demo firm and fill its current month with fake leads",
		RunE:  runSeed,
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for a firm",
		RunE:  runToken,
	}

	scoreCmd = &cobra.Command{
		Use:   "score",
		Short: "Explain how a draft JSON scores against a firm",
		RunE:  runScore,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print the firm's lead counts for the current month",
		RunE:  runStats,
	}
)

func init() {
	for _, c := range []*cobra.Command{tokenCmd, scoreCmd, statsCmd} {
		c.Flags().StringVar(&firmIdent, "firm", "", "firm slug or id")
		_ = c.MarkFlagRequired("firm")
	}
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "operator identity recorded in the token")

	scoreCmd.Flags().StringVarP(&draftFile, "file", "f", "-", "draft JSON file, - for stdin")
	scoreCmd.Flags().BoolVar(&enforceMinBudget, "enforce-min-budget", false, "apply the firm's minimum budget rule (defaults to SCORING_ENFORCE_MIN_BUDGET)")

	seedCmd.Flags().StringVar(&seedSlug, "slug", "demo-immigration", "firm slug")
	seedCmd.Flags().StringVar(&seedName, "name", "Demo Immigration Law", "firm name")
	seedCmd.Flags().StringVar(&seedEmail, "email", "intake@demo-immigration.test", "firm email")
	seedCmd.Flags().StringSliceVar(&seedStates, "states", []string{"California", "Texas", "New York"}, "service states")
	seedCmd.Flags().IntVar(&seedLeads, "leads", 25, "number of leads to create")
	seedCmd.Flags().Int64Var(&seedRandom, "seed", 0, "random seed, 0 for a random run")

	rootCmd.AddCommand(seedCmd, tokenCmd, scoreCmd, statsCmd)
}

type env struct {
	cfg   *config.Config
	log   logger.Logger
	db    *gorm.DB
	firms *firm.Repository
	leads *lead.Repository
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel)
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db, firms: firm.NewRepository(db), leads: lead.NewRepository(db)}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runToken(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	f, err := e.firms.GetByIdentifier(cmd.Context(), firmIdent)
	if err != nil {
		return err
	}
	token, err := jwt.New(e.cfg.JWTSecret, e.cfg.JWTTTL).GenerateToken(f.ID, tokenSubject)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runScore(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	f, err := e.firms.GetByIdentifier(cmd.Context(), firmIdent)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if draftFile != "-" {
		file, err := os.Open(draftFile)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}
	var d domain.IntakeDraft
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}

	opts := scoring.Options{EnforceMinBudget: e.cfg.EnforceMinBudget}
	if cmd.Flags().Changed("enforce-min-budget") {
		opts.EnforceMinBudget = enforceMinBudget
	}
	return printJSON(cmd.OutOrStdout(), scoring.Explain(d, f.Config(), opts))
}

func runStats(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	f, err := e.firms.GetByIdentifier(cmd.Context(), firmIdent)
	if err != nil {
		return err
	}
	stats, err := dashboard.NewService(e.leads, nil, e.cfg.StatsLocation, nil, e.log).Stats(cmd.Context(), f.ID)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), stats)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	f, err := ensureFirm(ctx, firm.NewService(e.firms, e.cfg.PublicBaseURL, e.log))
	if err != nil {
		return err
	}

	opts := scoring.Options{EnforceMinBudget: e.cfg.EnforceMinBudget}
	now := time.Now().In(e.cfg.StatsLocation)
	gen := newDraftGenerator(seedRandom)
	counts := map[domain.Tier]int{}
	for i := 0; i < seedLeads; i++ {
		d := gen.Draft()
		tier := scoring.Score(d, f.Config(), opts)
		l := domain.NewLead(d, f.ID, tier, gen.CreatedAt(now, e.cfg.StatsLocation).UTC())
		if err := e.leads.Create(ctx, l); err != nil {
			return err
		}
		counts[tier]++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "firm %s (%s): %d leads, %d hot, %d qualified, %d unqualified\n",
		f.Slug, f.ID, seedLeads, counts[domain.TierHot], counts[domain.TierQualified], counts[domain.TierUnqualified])
	return nil
}

func ensureFirm(ctx context.Context, svc *firm.Service) (*domain.Firm, error) {
	f, err := svc.GetByIdentifier(ctx, seedSlug)
	if err == nil {
		return f, nil
	}
	return svc.Create(ctx, firm.CreateFirmRequest{
		Name:          seedName,
		Slug:          seedSlug,
		Email:         seedEmail,
		ServiceStates: seedStates,
		MinBudget:     2000,
	})
}
