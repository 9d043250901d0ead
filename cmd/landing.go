package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

var landingCmd = &cobra.Command{
	Use:   "landing",
	Short: "Manage landing page settings",
	Long: `Inspect and update the configurable sections of the public
landing page. Sections are fixed on the backend: they can be edited
but not created or removed.

Examples:
  darabctl landing list
  darabctl landing get hero
  darabctl landing update hero --title "Welcome"`,
	PersistentPreRunE: requireAuth,
}

var landingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List landing sections",
	RunE:  runLandingList,
}

var landingGetCmd = &cobra.Command{
	Use:   "get <section>",
	Short: "Show a landing section",
	Args:  cobra.ExactArgs(1),
	RunE:  runLandingGet,
}

var landingUpdateCmd = &cobra.Command{
	Use:   "update <section>",
	Short: "Update a landing section",
	Args:  cobra.ExactArgs(1),
	RunE:  runLandingUpdate,
}

func init() {
	rootCmd.AddCommand(landingCmd)
	landingCmd.AddCommand(landingListCmd, landingGetCmd, landingUpdateCmd)

	landingListCmd.Flags().Bool("json", false, "output as JSON")
	landingGetCmd.Flags().Bool("json", false, "output as JSON")

	landingUpdateCmd.Flags().String("title", "", "section title")
	landingUpdateCmd.Flags().String("content", "", "section content")
}

func runLandingList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	result, err := services.Landing.List(cmd.Context())
	if err != nil {
		return failure(err, "listing landing sections")
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer := newPrinter()
	table := output.NewQuietTable([]string{"SECTION", "TITLE", "UPDATED"}, quiet)
	for _, s := range result.Items {
		title := s.Title
		if title == "" {
			title = "-"
		}
		table.AddRow([]string{s.Section, truncate(title, 40), shortDate(s.UpdatedAt)})
	}
	table.Render()
	printer.PrintHints("landing")
	return nil
}

func runLandingGet(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	section, err := services.Landing.Get(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "fetching landing section")
	}

	if jsonOutput {
		return printJSON(cmd, section)
	}

	printer := newPrinter()
	printer.Print("%s", printer.Bold(section.Section))
	if section.Title != "" {
		printer.Print("Title:   %s", section.Title)
	}
	if section.Content != "" {
		printer.Print("Content: %s", section.Content)
	}
	if section.Image != "" {
		printer.Print("Image:   %s", services.Media.ResolveURL(section.Image))
	}
	printer.Print("Updated: %s", shortDate(section.UpdatedAt))
	return nil
}

func runLandingUpdate(cmd *cobra.Command, args []string) error {
	var input resources.LandingSettingInput
	input.Title, _ = cmd.Flags().GetString("title")
	input.Content, _ = cmd.Flags().GetString("content")
	if input.Title == "" && input.Content == "" {
		return errRequiredFlag("title or --content")
	}

	section, err := services.Landing.Update(cmd.Context(), args[0], input)
	if err != nil {
		return failure(err, "updating landing section")
	}

	printer := newPrinter()
	printer.Success("Updated landing section %s", printer.Bold(section.Section))
	return nil
}
