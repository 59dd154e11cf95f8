package models

import "time"

// Message senders
const (
	SenderLead = "lead"
	SenderUser = "user"
)

// Message is one transcript entry
type Message struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AppendMessageRequest represents the body of POST /messages
type AppendMessageRequest struct {
	LeadID  int64  `json:"lead_id" validate:"required,gt=0"`
	Sender  string `json:"sender" validate:"required,oneof=lead user"`
	Message string `json:"message" validate:"required"`
}
