// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"encoding/json"
	"errors"
)

// ChatMessageTypeAI is the type the chat webhook sets on its replies.
const ChatMessageTypeAI = "ai"

// ChatMessage is the reply of the chat webhook.
// The shape is not enforced: fields the server did not send (or sent with a
// different type) stay zero, and Raw always holds the body as received.
type ChatMessage struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`

	Raw json.RawMessage `json:"-"`
}

// SubmitChatMessage posts {message, projectKey, adminUserKey} to the CHAT_MESSAGE
// webhook and returns the reply. Only a body that is not valid JSON is an error.
func (c *Client) SubmitChatMessage(ctx context.Context, message string) (ChatMessage, error) {
	data, err := c.dispatch(ctx, EndpointChatMessage, map[string]any{"message": message})
	if err != nil {
		return ChatMessage{}, err
	}
	return decodeChatMessage(data)
}

// decodeChatMessage fills the declared fields best-effort. Type mismatches are
// tolerated so any JSON shape passes through.
func decodeChatMessage(data []byte) (ChatMessage, error) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return ChatMessage{}, err
		}
	}
	msg.Raw = json.RawMessage(data)
	return msg, nil
}
