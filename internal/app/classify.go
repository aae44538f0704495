package app

import (
	"encoding/json"

	"github.com/avdim/roomchat/internal/core"
)

// wire schema of an inbound frame: presence frames carry a type
// discriminator and the new connected count, content frames just a
// message plus sender.
type inboundFrame struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	SenderName string `json:"sender_name"`
	Count      int    `json:"connected_users_count"`
}

// Classify maps a raw payload to a presence, content or unrecognized
// event. Pure function; it never touches session state.
func Classify(raw core.Frame) core.Event {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return core.Unrecognized{Raw: raw}
	}
	switch f.Type {
	case "user_join":
		return core.Presence{Kind: core.PresenceJoined, Count: f.Count, Text: f.Message}
	case "user_leave":
		return core.Presence{Kind: core.PresenceLeft, Count: f.Count, Text: f.Message}
	}
	if f.Message != "" {
		return core.Content{Sender: f.SenderName, Text: f.Message}
	}
	return core.Unrecognized{Raw: raw}
}
