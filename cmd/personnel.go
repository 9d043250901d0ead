package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

var personnelCmd = &cobra.Command{
	Use:   "personnel",
	Short: "Manage staff profiles",
	Long: `List, inspect, and mutate the staff profiles shown on the
public site. Profile images go through the upload command.

Examples:
  darabctl personnel list
  darabctl personnel create --name "Arash Golami" --position "Site Manager"
  darabctl upload photo.jpg --target personnel-image`,
	PersistentPreRunE: requireAuth,
}

var personnelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List personnel profiles",
	RunE:  runPersonnelList,
}

var personnelGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonnelGet,
}

var personnelCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a profile",
	RunE:  runPersonnelCreate,
}

var personnelUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonnelUpdate,
}

var personnelDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonnelDelete,
}

func init() {
	rootCmd.AddCommand(personnelCmd)
	personnelCmd.AddCommand(personnelListCmd, personnelGetCmd, personnelCreateCmd, personnelUpdateCmd, personnelDeleteCmd)

	personnelListCmd.Flags().Int("page", 1, "page number")
	personnelListCmd.Flags().Int("limit", 20, "items per page")
	personnelListCmd.Flags().String("name", "", "filter by name")
	personnelListCmd.Flags().Bool("json", false, "output as JSON")

	personnelGetCmd.Flags().Bool("json", false, "output as JSON")

	for _, c := range []*cobra.Command{personnelCreateCmd, personnelUpdateCmd} {
		c.Flags().String("name", "", "full name")
		c.Flags().String("position", "", "job title")
		c.Flags().String("bio", "", "short biography")
	}
}

func runPersonnelList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	name, _ := cmd.Flags().GetString("name")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	result, err := services.Personnel.List(cmd.Context(), resources.PersonnelListOptions{
		Page:  page,
		Limit: limit,
		Name:  name,
	})
	if err != nil {
		return failure(err, "listing personnel")
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer := newPrinter()
	table := output.NewQuietTable([]string{"ID", "NAME", "POSITION", "CREATED"}, quiet)
	for _, p := range result.Items {
		position := p.Position
		if position == "" {
			position = "-"
		}
		table.AddRow([]string{p.ID, p.FullName, position, shortDate(p.CreatedAt)})
	}
	table.Render()
	printPageFooter(printer, result.Pagination)
	printer.PrintHints("personnel")
	return nil
}

func runPersonnelGet(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	profile, err := services.Personnel.Get(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "fetching profile")
	}

	if jsonOutput {
		return printJSON(cmd, profile)
	}

	printer := newPrinter()
	printer.Print("%s", printer.Bold(profile.FullName))
	printer.Print("ID:       %s", profile.ID)
	if profile.Position != "" {
		printer.Print("Position: %s", profile.Position)
	}
	if profile.Bio != "" {
		printer.Print("Bio:      %s", truncate(profile.Bio, 120))
	}
	if profile.Image != "" {
		printer.Print("Image:    %s", services.Media.ResolveURL(profile.Image))
	}
	printer.Print("Created:  %s", shortDate(profile.CreatedAt))
	return nil
}

func runPersonnelCreate(cmd *cobra.Command, args []string) error {
	input := personnelInputFromFlags(cmd)
	if input.FullName == "" {
		return errRequiredFlag("name")
	}

	profile, err := services.Personnel.Create(cmd.Context(), input)
	if err != nil {
		return failure(err, "creating profile")
	}

	printer := newPrinter()
	printer.Success("Created profile %s (%s)", printer.Bold(profile.FullName), profile.ID)
	return nil
}

func runPersonnelUpdate(cmd *cobra.Command, args []string) error {
	input := personnelInputFromFlags(cmd)

	profile, err := services.Personnel.Update(cmd.Context(), args[0], input)
	if err != nil {
		return failure(err, "updating profile")
	}

	printer := newPrinter()
	printer.Success("Updated profile %s", printer.Bold(profile.FullName))
	return nil
}

func runPersonnelDelete(cmd *cobra.Command, args []string) error {
	if err := services.Personnel.Delete(cmd.Context(), args[0]); err != nil {
		return failure(err, "deleting profile")
	}

	printer := newPrinter()
	printer.Success("Deleted profile %s", args[0])
	return nil
}

func personnelInputFromFlags(cmd *cobra.Command) resources.PersonnelInput {
	var input resources.PersonnelInput
	input.FullName, _ = cmd.Flags().GetString("name")
	input.Position, _ = cmd.Flags().GetString("position")
	input.Bio, _ = cmd.Flags().GetString("bio")
	return input
}
