package main

import (
	"fmt"
	"log/slog"

	"github.com/colafan/alfred/internal/engine"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var (
		userID int64
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile a user's categories with the catalog",
		Long: `Run the category synchronization passes for one user: duplicate repair,
catalog upserts, orphan-parent repair, and retirement of removed entries.
With --force only the parent categories are re-applied, unconditionally.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			eng := engine.New(store, cat)

			if force {
				touched, syncErr := eng.ForceSync(ctx, userID)
				if syncErr != nil {
					return fmt.Errorf("force sync failed: %w", syncErr)
				}
				fmt.Printf("Force sync complete: %d parent categories touched\n", touched)
				return nil
			}

			if _, err := eng.Sync(ctx, userID); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Println("Sync complete")
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id to sync (required)")
	cmd.Flags().BoolVar(&force, "force", false, "re-apply parent categories unconditionally")
	_ = cmd.MarkFlagRequired("user")

	cmd.AddCommand(initDefaultsCmd())
	cmd.AddCommand(restoreCmd())
	return cmd
}

func restoreCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Reactivate a user's soft-deleted system categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			restored, err := engine.New(store, cat).RestoreSystemCategories(ctx, userID)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}

			fmt.Printf("Restored %d system categories\n", restored)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id to restore (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func initDefaultsCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Reset a user's categories to the catalog defaults",
		Long: `Soft-delete every active category the user has and recreate the catalog
defaults. Existing rows are reactivated by config id, so transaction history
stays attached.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			categories, err := engine.New(store, cat).InitializeDefaults(ctx, userID)
			if err != nil {
				return fmt.Errorf("initialize defaults failed: %w", err)
			}

			slog.Info("initialized default categories", "user", userID, "count", len(categories))
			fmt.Printf("Initialized %d categories\n", len(categories))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id to initialize (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Println("Database is up to date")
			return nil
		},
	}
}
