package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Browse the uploaded media library",
	Long: `List, inspect, and delete media library entries. New files enter
through the upload command.

Examples:
  darabctl media list --type image
  darabctl media get 31
  darabctl media delete 31`,
	PersistentPreRunE: requireAuth,
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media items",
	RunE:  runMediaList,
}

var mediaGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single media item",
	Args:  cobra.ExactArgs(1),
	RunE:  runMediaGet,
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a media item",
	Args:  cobra.ExactArgs(1),
	RunE:  runMediaDelete,
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	mediaCmd.AddCommand(mediaListCmd, mediaGetCmd, mediaDeleteCmd)

	mediaListCmd.Flags().Int("page", 1, "page number")
	mediaListCmd.Flags().Int("limit", 20, "items per page")
	mediaListCmd.Flags().String("type", "", "filter by mime type")
	mediaListCmd.Flags().Bool("json", false, "output as JSON")

	mediaGetCmd.Flags().Bool("json", false, "output as JSON")
}

func runMediaList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	mimeType, _ := cmd.Flags().GetString("type")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	result, err := services.Media.List(cmd.Context(), resources.MediaListOptions{
		Page:  page,
		Limit: limit,
		Type:  mimeType,
	})
	if err != nil {
		return failure(err, "listing media")
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer := newPrinter()
	table := output.NewQuietTable([]string{"ID", "PATH", "TYPE", "SIZE", "CREATED"}, quiet)
	for _, m := range result.Items {
		mime := m.MimeType
		if mime == "" {
			mime = "-"
		}
		size := "-"
		if m.Size > 0 {
			size = strconv.FormatInt(m.Size, 10)
		}
		table.AddRow([]string{m.ID, truncate(m.Path, 50), mime, size, shortDate(m.CreatedAt)})
	}
	table.Render()
	printPageFooter(printer, result.Pagination)
	printer.PrintHints("media")
	return nil
}

func runMediaGet(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	item, err := services.Media.Get(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "fetching media item")
	}

	if jsonOutput {
		return printJSON(cmd, item)
	}

	printer := newPrinter()
	printer.Print("ID:      %s", item.ID)
	printer.Print("URL:     %s", services.Media.ResolveURL(item.Path))
	if item.MimeType != "" {
		printer.Print("Type:    %s", item.MimeType)
	}
	if item.Size > 0 {
		printer.Print("Size:    %d bytes", item.Size)
	}
	printer.Print("Created: %s", shortDate(item.CreatedAt))
	return nil
}

func runMediaDelete(cmd *cobra.Command, args []string) error {
	if err := services.Media.Delete(cmd.Context(), args[0]); err != nil {
		return failure(err, "deleting media item")
	}

	printer := newPrinter()
	printer.Success("Deleted media item %s", args[0])
	return nil
}
