package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Manage weblog posts",
	Long: `List, inspect, and mutate weblog posts.

Listings are served from the query cache within the staleness window;
creates, updates, and deletes invalidate every cached post listing.

Examples:
  darabctl posts list --page 2
  darabctl posts get 42
  darabctl posts create --title "New post" --slug new-post
  darabctl posts delete 42`,
	PersistentPreRunE: requireAuth,
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE:  runPostsList,
}

var postsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsGet,
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	RunE:  runPostsCreate,
}

var postsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsUpdate,
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsDelete,
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsListCmd, postsGetCmd, postsCreateCmd, postsUpdateCmd, postsDeleteCmd)

	postsListCmd.Flags().Int("page", 1, "page number")
	postsListCmd.Flags().Int("limit", 20, "items per page")
	postsListCmd.Flags().String("title", "", "filter by title")
	postsListCmd.Flags().String("category", "", "filter by category id")
	postsListCmd.Flags().Bool("json", false, "output as JSON")

	postsGetCmd.Flags().Bool("json", false, "output as JSON")

	for _, c := range []*cobra.Command{postsCreateCmd, postsUpdateCmd} {
		c.Flags().String("title", "", "post title")
		c.Flags().String("slug", "", "URL slug")
		c.Flags().String("content", "", "post body")
		c.Flags().String("category", "", "category id")
		c.Flags().Bool("published", false, "publish the post")
	}
}

func runPostsList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	title, _ := cmd.Flags().GetString("title")
	category, _ := cmd.Flags().GetString("category")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	result, err := services.Posts.List(cmd.Context(), resources.PostListOptions{
		Page:     page,
		Limit:    limit,
		Title:    title,
		Category: category,
	})
	if err != nil {
		return failure(err, "listing posts")
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer := newPrinter()
	table := output.NewQuietTable([]string{"ID", "TITLE", "SLUG", "PUBLISHED", "CREATED"}, quiet)
	for _, p := range result.Items {
		published := "no"
		if p.Published {
			published = "yes"
		}
		table.AddRow([]string{p.ID, truncate(p.Title, 40), p.Slug, published, shortDate(p.CreatedAt)})
	}
	table.Render()
	printPageFooter(printer, result.Pagination)
	printer.PrintHints("posts")
	return nil
}

func runPostsGet(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	post, err := services.Posts.Get(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "fetching post")
	}

	if jsonOutput {
		return printJSON(cmd, post)
	}

	printer := newPrinter()
	printer.Print("%s", printer.Bold(post.Title))
	printer.Print("ID:        %s", post.ID)
	printer.Print("Slug:      %s", post.Slug)
	printer.Print("Published: %v", post.Published)
	if post.CategoryID != "" {
		printer.Print("Category:  %s", post.CategoryID)
	}
	if post.LeadPicture != "" {
		printer.Print("Lead:      %s", services.Media.ResolveURL(post.LeadPicture))
	}
	printer.Print("Created:   %s", shortDate(post.CreatedAt))
	return nil
}

func runPostsCreate(cmd *cobra.Command, args []string) error {
	input := postInputFromFlags(cmd)
	if input.Title == "" {
		return errRequiredFlag("title")
	}

	post, err := services.Posts.Create(cmd.Context(), input)
	if err != nil {
		return failure(err, "creating post")
	}

	printer := newPrinter()
	printer.Success("Created post %s (%s)", printer.Bold(post.Title), post.ID)
	return nil
}

func runPostsUpdate(cmd *cobra.Command, args []string) error {
	input := postInputFromFlags(cmd)

	post, err := services.Posts.Update(cmd.Context(), args[0], input)
	if err != nil {
		return failure(err, "updating post")
	}

	printer := newPrinter()
	printer.Success("Updated post %s", printer.Bold(post.Title))
	return nil
}

func runPostsDelete(cmd *cobra.Command, args []string) error {
	if err := services.Posts.Delete(cmd.Context(), args[0]); err != nil {
		return failure(err, "deleting post")
	}

	printer := newPrinter()
	printer.Success("Deleted post %s", args[0])
	return nil
}

// postInputFromFlags builds a PostInput from only the flags the user set,
// so updates patch rather than blank out fields
func postInputFromFlags(cmd *cobra.Command) resources.PostInput {
	var input resources.PostInput
	input.Title, _ = cmd.Flags().GetString("title")
	input.Slug, _ = cmd.Flags().GetString("slug")
	input.Content, _ = cmd.Flags().GetString("content")
	input.CategoryID, _ = cmd.Flags().GetString("category")
	if cmd.Flags().Changed("published") {
		published, _ := cmd.Flags().GetBool("published")
		input.Published = &published
	}
	return input
}
