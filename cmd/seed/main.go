// Command seed loads demo data into MongoDB: the card product catalog,
// deterministic synthetic transactions, and bank CSV exports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/config"
	"github.com/swipecoach/backend/internal/models"
	mongorepo "github.com/swipecoach/backend/internal/repositories/mongodb"
	"github.com/swipecoach/backend/internal/utils"
	"github.com/swipecoach/backend/pkg/mockdata"
	"github.com/swipecoach/backend/pkg/mongodb"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with catalog, synthetic, or imported data",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.AddCommand(catalogCmd(), transactionsCmd(), importCmd())

	if err := root.Execute(); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*mongodb.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return client, cfg, nil
}

func catalogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Load card products from a JSON file into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var products []*models.CardProduct
			if err := json.Unmarshal(raw, &products); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			if len(products) == 0 {
				return fmt.Errorf("%s contains no card products", file)
			}

			client, cfg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			repo := mongorepo.NewCatalogRepository(client.Database(cfg.MongoDB.Database))
			if err := repo.CreateMany(ctx, products); err != nil {
				return fmt.Errorf("insert catalog: %w", err)
			}
			logger.Info("catalog seeded", "products", len(products))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.json", "JSON file of card products")
	return cmd
}

func transactionsCmd() *cobra.Command {
	var (
		userHex     string
		accountHex  string
		count       int
		days        int
		seedVersion string
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Generate deterministic synthetic transactions for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			userID, err := utils.ParseObjectID(userHex)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			accountID, err := utils.ParseObjectID(accountHex)
			if err != nil {
				return fmt.Errorf("invalid --account: %w", err)
			}

			client, cfg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			repo := mongorepo.NewTransactionRepository(client.Database(cfg.MongoDB.Database))
			txns := mockdata.Generate(userID, accountID, mockdata.Options{
				Count:       count,
				Days:        days,
				SeedVersion: seedVersion,
			})

			inserted := 0
			for i := range txns {
				created, err := repo.UpsertSynthetic(ctx, &txns[i])
				if err != nil {
					return fmt.Errorf("upsert transaction: %w", err)
				}
				if created {
					inserted++
				}
			}
			logger.Info("synthetic transactions seeded",
				"generated", len(txns), "inserted", inserted, "skipped", len(txns)-inserted)
			return nil
		},
	}
	cmd.Flags().StringVar(&userHex, "user", "", "user ObjectID (required)")
	cmd.Flags().StringVar(&accountHex, "account", "", "account ObjectID (required)")
	cmd.Flags().IntVar(&count, "count", 120, "number of transactions to generate")
	cmd.Flags().IntVar(&days, "days", 60, "trailing window to spread transactions over")
	cmd.Flags().StringVar(&seedVersion, "seed-version", "v1", "seed version; bump to regenerate a fresh set")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

// csvTransaction is one row of a bank export. Amounts are parsed as
// decimals so cents survive the trip into the dollar float unrounded.
type csvTransaction struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Currency    string `csv:"currency"`
	ExternalID  string `csv:"external_id"`
}

func importCmd() *cobra.Command {
	var (
		file       string
		userHex    string
		accountHex string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from a bank CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			userID, err := utils.ParseObjectID(userHex)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			var accountID primitive.ObjectID
			if accountHex != "" {
				if accountID, err = utils.ParseObjectID(accountHex); err != nil {
					return fmt.Errorf("invalid --account: %w", err)
				}
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			var rows []*csvTransaction
			if err := gocsv.UnmarshalFile(f, &rows); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			txns, skipped := convertRows(rows, userID, accountID)
			if len(txns) == 0 {
				return fmt.Errorf("%s contains no importable rows", file)
			}

			client, cfg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			repo := mongorepo.NewTransactionRepository(client.Database(cfg.MongoDB.Database))
			inserted, err := repo.InsertMany(ctx, txns)
			if err != nil {
				return fmt.Errorf("insert transactions: %w", err)
			}
			logger.Info("csv import complete",
				"rows", len(rows), "inserted", inserted, "skipped", skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import (required)")
	cmd.Flags().StringVar(&userHex, "user", "", "user ObjectID (required)")
	cmd.Flags().StringVar(&accountHex, "account", "", "account ObjectID to attach transactions to")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// convertRows maps CSV rows to transactions, dropping rows whose date or
// amount does not parse. The count of dropped rows is returned for logging.
func convertRows(rows []*csvTransaction, userID, accountID primitive.ObjectID) ([]models.Transaction, int) {
	now := time.Now().UTC()
	txns := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		postedAt, err := parseDate(row.Date)
		if err != nil {
			skipped++
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
		if err != nil {
			skipped++
			continue
		}
		description := strings.TrimSpace(row.Description)
		currency := strings.ToUpper(strings.TrimSpace(row.Currency))
		if currency == "" {
			currency = "USD"
		}

		value, _ := amount.Float64()
		txns = append(txns, models.Transaction{
			UserID:        userID,
			AccountID:     accountID,
			Amount:        value,
			Currency:      currency,
			Category:      strings.TrimSpace(row.Category),
			MerchantName:  utils.NormalizeMerchantName(description),
			Description:   description,
			PostedAt:      postedAt,
			ProviderTxnID: strings.TrimSpace(row.ExternalID),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return txns, skipped
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "01/02/2006", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
