package repositories

import (
	"errors"

	"github.com/bitbrkr/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository owns the follow graph. Each relationship is a single
// directed row, so creating or removing an edge is one atomic write and
// there is no mirrored copy to keep in sync.
type FollowRepository interface {
	CreateFollow(followerID, followedID uint) error
	DeleteFollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) (bool, error)
	GetFollowers(userID uint) ([]models.FollowEdge, error)
	GetFollowing(userID uint) ([]models.FollowEdge, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	GetUnreadFollowers(userID uint) ([]models.FollowEdge, error)
	MarkFollowerRead(userID, followerID uint) error
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the directed edge followerID -> followedID with
// the unread flag set. A second insert for the same pair hits the
// unique index and reports ErrAlreadyExists; callers treat that as an
// idempotent no-op.
func (r *PostgresFollowRepository) CreateFollow(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfReference
	}
	follow := &models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		Unread:     true,
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// DeleteFollow removes the directed edge. Removing an absent edge is
// reported as ErrNotFound so the handler can decide it is a no-op.
func (r *PostgresFollowRepository) DeleteFollow(followerID, followedID uint) error {
	res := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers resolves "who follows userID" with peer summaries.
func (r *PostgresFollowRepository) GetFollowers(userID uint) ([]models.FollowEdge, error) {
	return r.edges("followed_id = ?", userID, true, false)
}

// GetFollowing resolves "whom userID follows" with peer summaries.
func (r *PostgresFollowRepository) GetFollowing(userID uint) ([]models.FollowEdge, error) {
	return r.edges("follower_id = ?", userID, false, false)
}

// GetUnreadFollowers returns the follower edges userID has not
// acknowledged yet.
func (r *PostgresFollowRepository) GetUnreadFollowers(userID uint) ([]models.FollowEdge, error) {
	return r.edges("followed_id = ?", userID, true, true)
}

// edges loads matching rows, then resolves the peer side of each edge
// with one batched user lookup.
func (r *PostgresFollowRepository) edges(where string, userID uint, peerIsFollower, unreadOnly bool) ([]models.FollowEdge, error) {
	q := r.db.Where(where, userID).Order("followed_on DESC")
	if unreadOnly {
		q = q.Where("unread = ?", true)
	}
	var rows []models.Follow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	peerIDs := make([]uint, 0, len(rows))
	for _, e := range rows {
		if peerIsFollower {
			peerIDs = append(peerIDs, e.FollowerID)
		} else {
			peerIDs = append(peerIDs, e.FollowedID)
		}
	}

	var peers []models.User
	if len(peerIDs) > 0 {
		if err := r.db.Where("id IN ?", peerIDs).Find(&peers).Error; err != nil {
			return nil, err
		}
	}
	peerByID := make(map[uint]models.User, len(peers))
	for _, p := range peers {
		peerByID[p.ID] = p
	}

	edges := make([]models.FollowEdge, 0, len(rows))
	for _, e := range rows {
		peerID := e.FollowedID
		if peerIsFollower {
			peerID = e.FollowerID
		}
		peer := peerByID[peerID]
		edges = append(edges, models.FollowEdge{
			Peer:       peer.ToCompact(),
			FollowedOn: e.FollowedOn,
			Unread:     e.Unread,
		})
	}
	return edges, nil
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("followed_id", &ids).Error
	return ids, err
}

// MarkFollowerRead clears the unread flag on the follower edge pointing
// at userID. Clearing an already-read edge is a no-op; a missing edge
// is ErrNotFound.
func (r *PostgresFollowRepository) MarkFollowerRead(userID, followerID uint) error {
	var edge models.Follow
	err := r.db.Where("follower_id = ? AND followed_id = ?", followerID, userID).First(&edge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ? AND unread = ?", followerID, userID, true).
		Update("unread", false).Error
}
