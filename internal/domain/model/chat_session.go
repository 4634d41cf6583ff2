package model

import (
	"time"
)

type ChatSessionStatus string

const (
	ChatSessionActive    ChatSessionStatus = "active"
	ChatSessionEscalated ChatSessionStatus = "escalated"
	ChatSessionResolved  ChatSessionStatus = "resolved"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeWorker   UserType = "worker"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage represents one message within a chat session.
// Messages are immutable once appended.
type ChatMessage struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionId"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Language  string      `json:"language"`
	UserType  UserType    `json:"userType"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChatSession is the aggregate root for one conversation with the assistant.
// The message list is append-only; order is chronological and is the display order.
type ChatSession struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId,omitempty"`
	UserType  UserType          `json:"userType"`
	Language  string            `json:"language"`
	Status    ChatSessionStatus `json:"status"`
	Messages  []ChatMessage     `json:"messages"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func NewChatSession(id, userID string, userType UserType, language string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:        id,
		UserID:    userID,
		UserType:  userType,
		Language:  language,
		Status:    ChatSessionActive,
		Messages:  make([]ChatMessage, 0, 8),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *ChatSession) AddMessage(msg ChatMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	msg.SessionID = s.ID
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = msg.Timestamp
}

// RecentMessages returns the last n messages in chronological order.
func (s *ChatSession) RecentMessages(n int) []ChatMessage {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// Clone returns a deep copy safe to hand out across goroutines.
func (s *ChatSession) Clone() *ChatSession {
	cp := *s
	cp.Messages = make([]ChatMessage, len(s.Messages))
	copy(cp.Messages, s.Messages)
	return &cp
}
