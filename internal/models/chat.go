package models

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage is one entry of the conversation transcript. RequestSeq ties an
// assistant reply to the user message that triggered it; the greeting uses 0.
type ChatMessage struct {
	ID         int64     `json:"id"`
	RequestSeq int64     `json:"request_seq"`
	Sender     Sender    `json:"sender"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Pending    bool      `json:"pending,omitempty"`
}
