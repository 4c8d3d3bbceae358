package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/colafan/alfred/internal/engine"
	"github.com/colafan/alfred/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage a user's categories",
		Long:  `List, add, and delete the categories used to classify transactions.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active categories",
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

			categories, err := engine.New(store, cat).ListCategories(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println("No categories found. Run 'alfred sync init' to create the defaults.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tKIND\tNAME\tPARENT\tSYSTEM")
			for _, c := range categories {
				parent := "-"
				if c.ParentID != nil {
					parent = fmt.Sprintf("%d", *c.ParentID)
				}
				system := ""
				if c.IsSystem {
					system = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Kind, c.Name, parent, system)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		userID    int64
		kind      string
		parentID  int64
		icon      string
		color     string
		sortOrder int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			params := engine.CreateCategoryParams{
				Name:      args[0],
				Kind:      model.CategoryKind(kind),
				Icon:      icon,
				Color:     color,
				SortOrder: sortOrder,
			}
			if parentID != 0 {
				params.ParentID = &parentID
			}

			created, err := engine.New(store, cat).CreateCustom(ctx, userID, params)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Printf("Created category %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (required)")
	cmd.Flags().StringVar(&kind, "kind", "expense", "category kind (expense, income)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "parent category id")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().IntVar(&sortOrder, "sort-order", 0, "sort order among siblings")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var categoryID int64
			if _, err := fmt.Sscanf(args[0], "%d", &categoryID); err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			if err := engine.New(store, cat).Delete(ctx, userID, categoryID); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Printf("Deleted category %d\n", categoryID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
