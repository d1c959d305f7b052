package models

import "encoding/json"

// Broadcast event kinds pushed to connected clients.
const (
	EventNewPost     = "new_post"
	EventPostDeleted = "post_deleted"
)

// Event is a single message on the broadcast channel. Delivery is
// at-most-once: clients reconcile by post id against GET /api/posts.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// PostDeletedPayload carries the identifier of a removed post so
// subscribers can prune their local view.
type PostDeletedPayload struct {
	PostID int64 `json:"postId"`
}

// NewPostEvent builds a new_post event carrying the enriched post.
func NewPostEvent(post *Post) (Event, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: EventNewPost, Payload: payload}, nil
}

// NewPostDeletedEvent builds a post_deleted event carrying the post id.
func NewPostDeletedEvent(postID int64) (Event, error) {
	payload, err := json.Marshal(PostDeletedPayload{PostID: postID})
	if err != nil {
		return Event{}, err
	}
	return Event{Event: EventPostDeleted, Payload: payload}, nil
}
