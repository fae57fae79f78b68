package audit

import "time"

// TopicLinkCreated is the topic link creation events are published to.
const TopicLinkCreated = "link.created"

// LinkCreatedEvent represents an event emitted when a short link is stored.
type LinkCreatedEvent struct {
	ShortID   string    `json:"shortId"`
	LongURL   string    `json:"longUrl"`
	Strategy  string    `json:"strategy"`
	Custom    bool      `json:"custom"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}
