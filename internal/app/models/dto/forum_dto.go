package dto

import (
	"time"

	"github.com/ecavus/collegia/internal/app/models"
)

// --- Request DTOs ---

// SendMessageRequest represents a forum message posted over REST
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- Response DTOs ---

// ForumMessageResponse represents one forum message
type ForumMessageResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ForumHistoryResponse represents the message history of a college forum
type ForumHistoryResponse struct {
	CollegeID int64                  `json:"collegeId"`
	Messages  []ForumMessageResponse `json:"messages"`
}

// ForumOnlineResponse reports how many members are currently present
type ForumOnlineResponse struct {
	CollegeID int64 `json:"collegeId"`
	Online    int   `json:"online"`
}

// ToForumMessageResponse converts a models.Message to a ForumMessageResponse
func ToForumMessageResponse(message *models.Message) ForumMessageResponse {
	if message == nil {
		return ForumMessageResponse{}
	}
	return ForumMessageResponse{
		ID:         message.ID,
		UserID:     message.UserID,
		SenderName: message.FirstName + " " + message.LastName,
		Message:    message.Body,
		CreatedAt:  message.CreatedAt,
	}
}
