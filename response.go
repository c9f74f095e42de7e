package chimpmock

import (
	"fmt"
	"net/http"
)

const (
	StatusSubscribed   = "subscribed"
	StatusUnsubscribed = "unsubscribed"
	StatusCleaned      = "cleaned"
)

type Tag struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Member is the part of a Mailchimp list member the janitor cares about.
type Member struct {
	ID                string            `json:"id"`
	EmailAddress      string            `json:"email_address"`
	UniqueEmailID     string            `json:"unique_email_id"`
	ContactID         string            `json:"contact_id"`
	FullName          string            `json:"full_name"`
	WebID             uint64            `json:"web_id"`
	EmailType         string            `json:"email_type"`
	Status            string            `json:"status"`
	UnsubscribeReason string            `json:"unsubscribe_reason"`
	MergeFields       map[string]string `json:"merge_fields,omitempty"`
	IPSignup          string            `json:"ip_signup"`
	TimestampSignup   string            `json:"timestamp_signup"`
	LastChanged       string            `json:"last_changed"`
	Language          string            `json:"language"`
	VIP               bool              `json:"vip"`
	Source            string            `json:"source"`
	TagsCount         uint64            `json:"tags_count"`
	Tags              []Tag             `json:"tags"`
	ListID            string            `json:"list_id"`
}

type ListResponse struct {
	Members    []Member `json:"members"`
	ListID     string   `json:"list_id,omitempty"`
	TotalItems int      `json:"total_items,omitempty"`
}

// APIError is the problem document Mailchimp returns for failed requests.
type APIError struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
	// Message is set by servers that answer with {"message": "..."} instead.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	title := e.Title
	if title == "" {
		title = e.Message
	}
	if title == "" {
		title = http.StatusText(e.Status)
	}

	if e.Detail == "" {
		return fmt.Sprintf("%s (%d)", title, e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", title, e.Status, e.Detail)
}

type updateMemberRequest struct {
	Status string `json:"status"`
}
