package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	config "github.com/troycsc/desk-services/configs"
	"github.com/troycsc/desk-services/internal/cardsvc/service"
	"github.com/troycsc/desk-services/internal/cardsvc/store"
	"github.com/troycsc/desk-services/internal/db"
)

// migrateCmd upgrades an existing card database in place
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade the card database and rebuild loan history",
	Long: `For mongo: backfills fields missing from documents written by the
first desk app, creates indexes (cards.cardNumber and users.email unique).
For postgres: applies the schema. Both then rebuild card_history from the
activity log when it is empty.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	out := cmd.OutOrStdout()

	var st service.Store
	switch cfg.StoreDriver {
	case "mongo":
		client, database, err := db.ConnectToDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		ms := store.NewMongoStore(database)
		stats, err := ms.Backfill(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "backfilled %d cards, %d requests, %d logs\n", stats.Cards, stats.Requests, stats.Logs)
		st = ms
	case "postgres":
		pool, err := db.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer db.ClosePool()

		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}
		fmt.Fprintln(out, "schema applied")
		st = store.NewPgStore(pool)
	default:
		return fmt.Errorf("migrate needs STORE_DRIVER mongo or postgres, got %q", cfg.StoreDriver)
	}

	n, err := service.RebuildHistory(ctx, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "history records created: %d\n", n)
	return nil
}
