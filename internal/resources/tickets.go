package resources

import (
	"context"
	"net/http"
	"time"
)

// Ticket statuses as reported by the backend
const (
	TicketOpen     = "open"
	TicketAnswered = "answered"
	TicketClosed   = "closed"
)

// Ticket is a visitor support request
type Ticket struct {
	ID        string        `json:"id"`
	Subject   string        `json:"subject"`
	Email     string        `json:"email,omitempty"`
	Message   string        `json:"message"`
	Status    string        `json:"status"`
	Replies   []TicketReply `json:"replies,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// TicketReply is a single admin response on a ticket
type TicketReply struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketListOptions filters a ticket listing
type TicketListOptions struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Status string `json:"status,omitempty"`
}

// TicketsService provides operations for support tickets
type TicketsService struct {
	base *base
}

// List returns a page of tickets
func (s *TicketsService) List(ctx context.Context, opts TicketListOptions) (ListResult[Ticket], error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	return listQuery[Ticket](ctx, s.base, "tickets", "/tickets", opts, q)
}

// Get returns a single ticket with its replies
func (s *TicketsService) Get(ctx context.Context, id string) (*Ticket, error) {
	return detailQuery[*Ticket](ctx, s.base, "tickets", "/tickets/"+id, id)
}

// Reply posts an admin response; the backend flips the ticket to answered
func (s *TicketsService) Reply(ctx context.Context, id, message string) (*Ticket, error) {
	body := map[string]string{"message": message}
	var updated Ticket
	if err := s.base.client.JSON(ctx, http.MethodPost, "/tickets/"+id+"/reply", body, &updated); err != nil {
		return nil, err
	}
	s.base.invalidateLists("tickets")
	s.base.writeThroughDetail("tickets", id, &updated)
	return &updated, nil
}

// Close marks a ticket closed
func (s *TicketsService) Close(ctx context.Context, id string) (*Ticket, error) {
	body := map[string]string{"status": TicketClosed}
	var updated Ticket
	if err := s.base.client.JSON(ctx, http.MethodPatch, "/tickets/"+id, body, &updated); err != nil {
		return nil, err
	}
	s.base.invalidateLists("tickets")
	s.base.writeThroughDetail("tickets", id, &updated)
	return &updated, nil
}

// Delete removes a ticket and drops its cached state
func (s *TicketsService) Delete(ctx context.Context, id string) error {
	if err := s.base.client.JSON(ctx, http.MethodDelete, "/tickets/"+id, nil, nil); err != nil {
		return err
	}
	s.base.invalidateLists("tickets")
	s.base.dropDetail("tickets", id)
	return nil
}
