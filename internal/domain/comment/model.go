package comment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxContentLength = 1000

// Comment belongs to a match. Replies point at a top-level comment; there is
// only one level of threading.
type Comment struct {
	ID             string
	GroupID        string
	MatchID        string
	ParentID       string
	AuthorPlayerID string
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Comment) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("comment id is required")
	}
	if c.GroupID == "" || c.MatchID == "" {
		return fmt.Errorf("comment group and match are required")
	}
	if c.AuthorPlayerID == "" {
		return fmt.Errorf("comment author is required")
	}
	content := strings.TrimSpace(c.Content)
	if content == "" {
		return fmt.Errorf("comment content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("comment content exceeds %d characters", MaxContentLength)
	}
	if c.ParentID == c.ID {
		return fmt.Errorf("comment cannot reply to itself")
	}

	return nil
}

func (c Comment) IsReply() bool {
	return c.ParentID != ""
}

// Thread is a top-level comment with its replies in creation order.
type Thread struct {
	Comment Comment
	Replies []Comment
}

// BuildThreads groups replies under their parents. Input must be sorted by
// CreatedAt; replies whose parent is missing are dropped.
func BuildThreads(items []Comment) []Thread {
	threads := make([]Thread, 0, len(items))
	index := make(map[string]int, len(items))
	for _, c := range items {
		if c.IsReply() {
			continue
		}
		index[c.ID] = len(threads)
		threads = append(threads, Thread{Comment: c})
	}
	for _, c := range items {
		if !c.IsReply() {
			continue
		}
		pos, ok := index[c.ParentID]
		if !ok {
			continue
		}
		threads[pos].Replies = append(threads[pos].Replies, c)
	}
	return threads
}
