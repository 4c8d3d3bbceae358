package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/colafan/alfred/internal/engine"
	"github.com/colafan/alfred/internal/model"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage budgets and inspect their usage",
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(addBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())
	cmd.AddCommand(budgetUsageCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			budgets, err := engine.NewBudgets(store).List(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to list budgets: %w", err)
			}

			if len(budgets) == 0 {
				fmt.Println("No budgets found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tCATEGORY\tAMOUNT\tPERIOD\tSTART\tEND")
			for _, b := range budgets {
				end := "-"
				if b.EndDate != nil {
					end = b.EndDate.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%d\t%d\t%.2f\t%s\t%s\t%s\n",
					b.ID, b.CategoryID, b.Amount, b.Period,
					b.StartDate.Format("2006-01-02"), end)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func addBudgetCmd() *cobra.Command {
	var (
		userID     int64
		categoryID int64
		amount     float64
		period     string
		threshold  float64
		start      string
		end        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a budget for a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}

			params := engine.BudgetParams{
				CategoryID:     categoryID,
				Amount:         amount,
				Period:         model.BudgetPeriod(period),
				AlertThreshold: threshold,
				StartDate:      startDate,
			}
			if end != "" {
				endDate, parseErr := time.Parse("2006-01-02", end)
				if parseErr != nil {
					return fmt.Errorf("invalid end date %q: %w", end, parseErr)
				}
				params.EndDate = &endDate
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := engine.NewBudgets(store).Create(ctx, userID, params)
			if err != nil {
				return fmt.Errorf("failed to create budget: %w", err)
			}

			fmt.Printf("Created budget %d for category %d\n", created.ID, created.CategoryID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (required)")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "budget amount (required)")
	cmd.Flags().StringVar(&period, "period", "monthly", "period label (daily, weekly, monthly, yearly)")
	cmd.Flags().Float64Var(&threshold, "alert-threshold", 80, "alert threshold percentage (0-100)")
	cmd.Flags().StringVar(&start, "start", time.Now().Format("2006-01-02"), "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD), open-ended when omitted")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			budgetID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid budget id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := engine.NewBudgets(store).Delete(ctx, userID, budgetID); err != nil {
				return fmt.Errorf("failed to delete budget: %w", err)
			}

			fmt.Printf("Deleted budget %d\n", budgetID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func budgetUsageCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show usage for every active budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			usage, err := engine.NewBudgets(store).Usage(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to compute budget usage: %w", err)
			}

			if len(usage) == 0 {
				fmt.Println("No budgets found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "BUDGET\tCATEGORY\tCAP\tUSED\tREMAINING\tUSED%\tOVER")
			for _, u := range usage {
				name := u.CategoryName
				if name == "" {
					name = "(deleted)"
				}
				over := ""
				if u.IsOverBudget {
					over = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
					u.BudgetID, name, u.BudgetAmount, u.UsedAmount,
					u.RemainingAmount, u.UsagePercentage, over)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
