package models

import "time"

type SupportTicket struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Subject   string          `json:"subject"`
	Status    TicketStatus    `json:"status"`
	Messages  []TicketMessage `json:"messages,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type TicketMessage struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticket_id"`
	SenderID   int64     `json:"sender_id"`
	SenderRole string    `json:"sender_role"`
	Message    string    `json:"message"`
	ImageURL   string    `json:"image_url,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketPending  TicketStatus = "pending"
	TicketAnswered TicketStatus = "answered"
	TicketClosed   TicketStatus = "closed"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
