package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	config "github.com/troycsc/desk-services/configs"
	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"github.com/troycsc/desk-services/internal/cardsvc/service"
	"github.com/troycsc/desk-services/internal/cardsvc/store"
	"github.com/troycsc/desk-services/internal/db"
)

var (
	userName     string
	userEmail    string
	userPassword string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage desk staff accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a staff account",
	Long: `Creates a staff account that can sign in to the desk API. The password
may be given with --password or the CARDCTL_PASSWORD environment variable.`,
	RunE: runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "sign in email")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password, at least 8 characters")
	userAddCmd.Flags().StringVar(&userRole, "role", models.RoleStaff, "staff or admin")
	userAddCmd.MarkFlagRequired("name")
	userAddCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userAddCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	password := userPassword
	if password == "" {
		password = os.Getenv("CARDCTL_PASSWORD")
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	var users service.UserStore
	switch cfg.StoreDriver {
	case "mongo":
		client, database, err := db.ConnectToDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		users = store.NewMongoStore(database)
	case "postgres":
		pool, err := db.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer db.ClosePool()
		users = store.NewPgStore(pool)
	default:
		return fmt.Errorf("user add needs STORE_DRIVER mongo or postgres, got %q", cfg.StoreDriver)
	}

	return addUser(ctx, cmd, users, password)
}

func addUser(ctx context.Context, cmd *cobra.Command, users service.UserStore, password string) error {
	u, err := service.NewAuthService(users, nil).Register(ctx, userName, userEmail, password, userRole)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
	return nil
}
