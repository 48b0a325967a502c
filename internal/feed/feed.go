package feed

import "time"

// Article is a single item pulled from a news feed.
type Article struct {
	Title     string
	Link      string
	Published time.Time
	Source    string // feed display name
	Summary   string // short, feed-provided description
	Content   string // full body, may be empty
}
