package models

import "time"

// Notifications are not persisted rows. They are a derived view over
// three unread-flagged sources: comments and likes embedded in the
// viewer's posts, and follow edges pointing at the viewer. Each flag
// flips from unread to read exactly once, via MarkRead on its own
// identifier.

// NotificationKind selects which unread flag a MarkRead targets.
type NotificationKind string

const (
	NotificationComment  NotificationKind = "comment"
	NotificationLike     NotificationKind = "like"
	NotificationFollower NotificationKind = "follower"
)

// Valid reports whether k is one of the three event kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationComment, NotificationLike, NotificationFollower:
		return true
	}
	return false
}

// UnreadComment is an unacknowledged comment on one of the viewer's posts.
type UnreadComment struct {
	PostID    string      `json:"post_id"`
	CommentID string      `json:"comment_id"`
	Author    UserCompact `json:"author"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// UnreadLike is an unacknowledged like on one of the viewer's posts.
type UnreadLike struct {
	PostID string      `json:"post_id"`
	LikeID string      `json:"like_id"`
	Liker  UserCompact `json:"liker"`
}

// UnreadFollower is an unacknowledged entry in the viewer's follower list.
type UnreadFollower struct {
	Peer       UserCompact `json:"peer"`
	FollowedOn time.Time   `json:"followed_on"`
}

// Notifications bundles the three unread sets returned by CollectUnread.
type Notifications struct {
	Comments  []UnreadComment  `json:"comments"`
	Likes     []UnreadLike     `json:"likes"`
	Followers []UnreadFollower `json:"followers"`
}

// MarkReadRequest acknowledges a single event. EventRef is the comment
// or like subdocument ID for those kinds, or the peer's username for
// the follower kind.
type MarkReadRequest struct {
	Kind     NotificationKind `json:"kind" validate:"required"`
	EventRef string           `json:"event_ref" validate:"required"`
}
