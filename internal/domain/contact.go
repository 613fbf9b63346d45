package domain

import "time"

type ContactMessage struct {
	MessageID string    `json:"message_id" dynamodbav:"message_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Message   string    `json:"message" dynamodbav:"message"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200,singleline"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Email is a provider-neutral outgoing message with text and HTML parts.
type Email struct {
	From    string
	To      []string
	ReplyTo []string
	Subject string
	Text    string
	HTML    string
}
