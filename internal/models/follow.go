package models

import "time"

// Follow is one directed edge of the follow graph: FollowerID follows
// FollowedID. Both the "followers of X" and "following of X" views are
// queries over this single table, so the two sides can never drift
// apart. The composite unique index makes a repeated Follow a no-op
// instead of a duplicate edge.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followed"`
	FollowedID uint      `json:"followed_id" gorm:"index;uniqueIndex:idx_follower_followed"`
	FollowedOn time.Time `json:"followed_on" gorm:"autoCreateTime"`
	Unread     bool      `json:"unread" gorm:"default:true"` // cleared when the followed user acknowledges
}

// FollowEdge is a resolved edge for listings: the peer's profile
// summary plus edge metadata.
type FollowEdge struct {
	Peer       UserCompact `json:"peer"`
	FollowedOn time.Time   `json:"followed_on"`
	Unread     bool        `json:"unread,omitempty"`
}
