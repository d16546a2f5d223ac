package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	sentinelNoComment    = "No comment"
	sentinelSkipped      = "User skipped the comment"
	sentinelNotSpecified = "Not specified"
	sentinelNoRating     = "N/A"
)

// Record is one finalized feedback submission. It is built once at
// finalization time and never updated afterwards.
type Record struct {
	UserID      int64
	Username    string
	FirstName   string
	Rating      string
	Comment     string
	SubmittedAt time.Time
}

// Values returns the row in spreadsheet column order:
// user id, handle, first name, rating, comment, timestamp.
func (r Record) Values() []interface{} {
	handle := sentinelNotSpecified
	if r.Username != "" {
		handle = "@" + r.Username
	}
	name := r.FirstName
	if name == "" {
		name = sentinelNotSpecified
	}
	rating := r.Rating
	if rating == "" {
		rating = sentinelNoRating
	}
	return []interface{}{
		strconv.FormatInt(r.UserID, 10),
		handle,
		name,
		rating,
		r.Comment,
		r.SubmittedAt.Format("2006-01-02 15:04:05"),
	}
}

// composeComment joins the free-text comment with the numbered photo links,
// text first, links in upload order.
func composeComment(text string, links []string) string {
	parts := make([]string, 0, len(links)+1)
	if text != "" {
		parts = append(parts, text)
	}
	for i, link := range links {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, link))
	}
	if len(parts) == 0 {
		return sentinelNoComment
	}
	return strings.Join(parts, "\n")
}
