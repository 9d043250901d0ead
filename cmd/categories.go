package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage content categories",
	Long: `List, inspect, and mutate the categories shared by posts and
products. Slugs are unique: creating a duplicate reports a conflict.

Examples:
  darabctl categories list
  darabctl categories create --name Cement --slug cement
  darabctl categories update 7 --name "Portland Cement"`,
	PersistentPreRunE: requireAuth,
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE:  runCategoriesList,
}

var categoriesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesGet,
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE:  runCategoriesCreate,
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesUpdate,
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesDelete,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesGetCmd, categoriesCreateCmd, categoriesUpdateCmd, categoriesDeleteCmd)

	categoriesListCmd.Flags().Int("page", 1, "page number")
	categoriesListCmd.Flags().Int("limit", 20, "items per page")
	categoriesListCmd.Flags().String("name", "", "filter by name")
	categoriesListCmd.Flags().Bool("json", false, "output as JSON")

	categoriesGetCmd.Flags().Bool("json", false, "output as JSON")

	for _, c := range []*cobra.Command{categoriesCreateCmd, categoriesUpdateCmd} {
		c.Flags().String("name", "", "category name")
		c.Flags().String("slug", "", "URL slug")
		c.Flags().String("parent", "", "parent category id")
	}
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	name, _ := cmd.Flags().GetString("name")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	result, err := services.Categories.List(cmd.Context(), resources.CategoryListOptions{
		Page:  page,
		Limit: limit,
		Name:  name,
	})
	if err != nil {
		return failure(err, "listing categories")
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer := newPrinter()
	table := output.NewQuietTable([]string{"ID", "NAME", "SLUG", "PARENT", "CREATED"}, quiet)
	for _, c := range result.Items {
		parent := c.ParentID
		if parent == "" {
			parent = "-"
		}
		table.AddRow([]string{c.ID, c.Name, c.Slug, parent, shortDate(c.CreatedAt)})
	}
	table.Render()
	printPageFooter(printer, result.Pagination)
	printer.PrintHints("categories")
	return nil
}

func runCategoriesGet(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	category, err := services.Categories.Get(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "fetching category")
	}

	if jsonOutput {
		return printJSON(cmd, category)
	}

	printer := newPrinter()
	printer.Print("%s", printer.Bold(category.Name))
	printer.Print("ID:      %s", category.ID)
	printer.Print("Slug:    %s", category.Slug)
	if category.ParentID != "" {
		printer.Print("Parent:  %s", category.ParentID)
	}
	printer.Print("Created: %s", shortDate(category.CreatedAt))
	return nil
}

func runCategoriesCreate(cmd *cobra.Command, args []string) error {
	input := categoryInputFromFlags(cmd)
	if input.Name == "" {
		return errRequiredFlag("name")
	}
	if input.Slug == "" {
		return errRequiredFlag("slug")
	}

	category, err := services.Categories.Create(cmd.Context(), input)
	if err != nil {
		return failure(err, "creating category")
	}

	printer := newPrinter()
	printer.Success("Created category %s (%s)", printer.Bold(category.Name), category.ID)
	return nil
}

func runCategoriesUpdate(cmd *cobra.Command, args []string) error {
	input := categoryInputFromFlags(cmd)

	category, err := services.Categories.Update(cmd.Context(), args[0], input)
	if err != nil {
		return failure(err, "updating category")
	}

	printer := newPrinter()
	printer.Success("Updated category %s", printer.Bold(category.Name))
	return nil
}

func runCategoriesDelete(cmd *cobra.Command, args []string) error {
	if err := services.Categories.Delete(cmd.Context(), args[0]); err != nil {
		return failure(err, "deleting category")
	}

	printer := newPrinter()
	printer.Success("Deleted category %s", args[0])
	return nil
}

func categoryInputFromFlags(cmd *cobra.Command) resources.CategoryInput {
	var input resources.CategoryInput
	input.Name, _ = cmd.Flags().GetString("name")
	input.Slug, _ = cmd.Flags().GetString("slug")
	input.ParentID, _ = cmd.Flags().GetString("parent")
	return input
}
