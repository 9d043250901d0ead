package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Manage visitor support tickets",
	Long: `List, read, answer, and close the support tickets visitors leave
on the public site. Ticket listings keep a short staleness window so
new tickets show up quickly.

Examples:
  darabctl tickets list --status open
  darabctl tickets get 18
  darabctl tickets reply 18 --message "Thanks, fixed."
  darabctl tickets close 18`,
	PersistentPreRunE: requireAuth,
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	RunE:  runTicketsList,
}

var ticketsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a ticket with its replies",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicketsGet,
}

var ticketsReplyCmd = &cobra.Command{
	Use:   "reply <id>",
	Short: "Post an admin reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicketsReply,
}

var ticketsCloseCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a ticket",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicketsClose,
}

var ticketsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a ticket",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicketsDelete,
}

func init() {
	rootCmd.AddCommand(ticketsCmd)
	ticketsCmd.AddCommand(ticketsListCmd, ticketsGetCmd, ticketsReplyCmd, ticketsCloseCmd, ticketsDeleteCmd)

	ticketsListCmd.Flags().Int("page", 1, "page number")
	ticketsListCmd.Flags().Int("limit", 20, "items per page")
	ticketsListCmd.Flags().String("status", "", "filter by status: open, answered, closed")
	ticketsListCmd.Flags().Bool("json", false, "output as JSON")

	ticketsGetCmd.Flags().Bool("json", false, "output as JSON")

	ticketsReplyCmd.Flags().StringP("message", "m", "", "reply text")
}

func runTicketsList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if status != "" && status != resources.TicketOpen && status != resources.TicketAnswered && status != resources.TicketClosed {
		return fmt.Errorf("invalid status %q: must be open, answered, or closed", status)
	}

	result, err := services.Tickets.List(cmd.Context(), resources.TicketListOptions{
		Page:   page,
		Limit:  limit,
		Status: status,
	})
	if err != nil {
		return failure(err, "listing tickets")
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer := newPrinter()
	table := output.NewQuietTable([]string{"ID", "STATUS", "SUBJECT", "REPLIES", "CREATED"}, quiet)
	for _, t := range result.Items {
		table.AddRow([]string{
			t.ID,
			printer.StatusBadge(t.Status) + " " + t.Status,
			truncate(t.Subject, 40),
			strconv.Itoa(len(t.Replies)),
			shortDate(t.CreatedAt),
		})
	}
	table.Render()
	printPageFooter(printer, result.Pagination)
	printer.PrintHints("tickets")
	return nil
}

func runTicketsGet(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ticket, err := services.Tickets.Get(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "fetching ticket")
	}

	if jsonOutput {
		return printJSON(cmd, ticket)
	}

	printer := newPrinter()
	printer.Print("%s %s", printer.StatusBadge(ticket.Status), printer.Bold(ticket.Subject))
	printer.Print("ID:      %s", ticket.ID)
	if ticket.Email != "" {
		printer.Print("From:    %s", ticket.Email)
	}
	printer.Print("Created: %s", shortDate(ticket.CreatedAt))
	printer.Print("")
	printer.Print("%s", ticket.Message)
	for _, r := range ticket.Replies {
		printer.Print("")
		printer.Print("%s %s", printer.Dim(shortDate(r.CreatedAt)), r.Message)
	}
	return nil
}

func runTicketsReply(cmd *cobra.Command, args []string) error {
	message, _ := cmd.Flags().GetString("message")
	if message == "" {
		return errRequiredFlag("message")
	}

	ticket, err := services.Tickets.Reply(cmd.Context(), args[0], message)
	if err != nil {
		return failure(err, "replying to ticket")
	}

	printer := newPrinter()
	printer.Success("Replied to ticket %s (now %s)", ticket.ID, ticket.Status)
	return nil
}

func runTicketsClose(cmd *cobra.Command, args []string) error {
	ticket, err := services.Tickets.Close(cmd.Context(), args[0])
	if err != nil {
		return failure(err, "closing ticket")
	}

	printer := newPrinter()
	printer.Success("Closed ticket %s", ticket.ID)
	return nil
}

func runTicketsDelete(cmd *cobra.Command, args []string) error {
	if err := services.Tickets.Delete(cmd.Context(), args[0]); err != nil {
		return failure(err, "deleting ticket")
	}

	printer := newPrinter()
	printer.Success("Deleted ticket %s", args[0])
	return nil
}
