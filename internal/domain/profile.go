package domain

import "time"

type Profile struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Username  string    `json:"username" dynamodbav:"username"`
	Email     string    `json:"email" dynamodbav:"email"`
	Address   string    `json:"address" dynamodbav:"address"`
	Avatar    *string   `json:"avatar" dynamodbav:"avatar,omitempty"`
	AvatarKey string    `json:"-" dynamodbav:"avatar_key,omitempty"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
