package domain

type RoomID string

// Room is chat room meta as served by the collaborator API.
// Title may be a placeholder when the info fetch fails.
type Room struct {
	ID    RoomID `json:"id"`
	Title string `json:"title"`
}

// UnknownRoomTitle is the fallback label when room info cannot be fetched.
const UnknownRoomTitle = "Unknown Room"
