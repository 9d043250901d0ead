package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage catalogue products",
	Long: `List, inspect, and mutate catalogue products.

Examples:
  darabctl products list --search cement
  darabctl products create --title "Portland Cement" --slug portland --price 250000
  darabctl products delete 12`,
	PersistentPreRunE: requireAuth,
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE:  runProductsList,
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsGet,
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	RunE:  runProductsCreate,
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsUpdate,
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsDelete,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsGetCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd)

	productsListCmd.Flags().Int("page", 1, "page number")
	productsListCmd.Flags().Int("limit", 20, "items per page")
	productsListCmd.Flags().String("search", "", "search title and description")
	productsListCmd.Flags().String("category", "", "filter by category id")
	productsListCmd.Flags().Bool("json", false, "output as JSON")

	productsGetCmd.Flags().Bool("json", false, "output as JSON")

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().String("title", "", "product title")
		c.Flags().String("slug", "", "URL slug")
		c.Flags().String("description", "", "product description")
		c.Flags().Int64("price", 0, "price in rials")
		c.Flags().String("category", "", "category id")
	}
}

func runProductsList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	search, _ := cmd.Flags().GetString("search")
	category, _ := cmd.Flags().GetString("category")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	result, err := services.Products.List(cmd.Context(), resources.ProductListOptions{
		Page:     page,
		Limit:    limit,
		Search:   search,
		Category: category,
	})
	if err != nil {
		return failure(err, "listing products")
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer := newPrinter()
	table := output.NewQuietTable([]string{"ID", "TITLE", "SLUG", "PRICE", "IMAGES", "CREATED"}, quiet)
	for _, p := range result.Items {
		price := "-"
		if p.Price > 0 {
			price = strconv.FormatInt(p.Price, 10)
		}
		table.AddRow([]string{
			p.ID,
			truncate(p.Title, 40),
			p.Slug,
			price,
			strconv.Itoa(len(p.Images)),
			shortDate(p.CreatedAt),
		})
	}
	table.Render()
	printPageFooter(printer, result.Pagination)
	printer.PrintHints("products")
	return nil
}

func runProductsGet(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	product, err := services.Products.Get(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "fetching product")
	}

	if jsonOutput {
		return printJSON(cmd, product)
	}

	printer := newPrinter()
	printer.Print("%s", printer.Bold(product.Title))
	printer.Print("ID:       %s", product.ID)
	printer.Print("Slug:     %s", product.Slug)
	if product.Price > 0 {
		printer.Print("Price:    %d", product.Price)
	}
	if product.CategoryID != "" {
		printer.Print("Category: %s", product.CategoryID)
	}
	for _, img := range product.Images {
		printer.Print("Image:    %s", services.Media.ResolveURL(img))
	}
	printer.Print("Created:  %s", shortDate(product.CreatedAt))
	return nil
}

func runProductsCreate(cmd *cobra.Command, args []string) error {
	input := productInputFromFlags(cmd)
	if input.Title == "" {
		return errRequiredFlag("title")
	}

	product, err := services.Products.Create(cmd.Context(), input)
	if err != nil {
		return failure(err, "creating product")
	}

	printer := newPrinter()
	printer.Success("Created product %s (%s)", printer.Bold(product.Title), product.ID)
	return nil
}

func runProductsUpdate(cmd *cobra.Command, args []string) error {
	input := productInputFromFlags(cmd)

	product, err := services.Products.Update(cmd.Context(), args[0], input)
	if err != nil {
		return failure(err, "updating product")
	}

	printer := newPrinter()
	printer.Success("Updated product %s", printer.Bold(product.Title))
	return nil
}

func runProductsDelete(cmd *cobra.Command, args []string) error {
	if err := services.Products.Delete(cmd.Context(), args[0]); err != nil {
		return failure(err, "deleting product")
	}

	printer := newPrinter()
	printer.Success("Deleted product %s", args[0])
	return nil
}

func productInputFromFlags(cmd *cobra.Command) resources.ProductInput {
	var input resources.ProductInput
	input.Title, _ = cmd.Flags().GetString("title")
	input.Slug, _ = cmd.Flags().GetString("slug")
	input.Description, _ = cmd.Flags().GetString("description")
	input.CategoryID, _ = cmd.Flags().GetString("category")
	if cmd.Flags().Changed("price") {
		price, _ := cmd.Flags().GetInt64("price")
		input.Price = &price
	}
	return input
}
