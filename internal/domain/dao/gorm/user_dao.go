package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// friendsQuery resolves each friend's display name and the image of
// their chosen display account.
const friendsQuery = `
SELECT
	u.id AS id,
	u.display_name AS name,
	COALESCE(ua.image_id, '') AS image_id
FROM friendships f
JOIN users u
	ON u.id = f.friend_id
	AND u.deleted_at IS NULL
LEFT JOIN user_accounts ua
	ON ua.user_id = u.id
	AND ua.type = u.display_account
WHERE f.user_id = ?
ORDER BY u.display_name ASC
LIMIT ? OFFSET ?
`

type userGormDAO struct {
	*baseGormDAO[entity.User]
}

// NewUserDAO creates a GORM-backed UserDAO.
func NewUserDAO(db *gorm.DB) dao.UserDAO {
	return &userGormDAO{baseGormDAO: newBaseGormDAO[entity.User](db)}
}

func (d *userGormDAO) Create(ctx context.Context, user *entity.User) error {
	return d.getDB().WithContext(ctx).Create(user).Error
}

func (d *userGormDAO) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := d.getDB().WithContext(ctx).
		Preload("Accounts").
		Preload("PremiumFeatures").
		Where("id = ?", id).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *userGormDAO) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return d.findByField(ctx, "username", username)
}

func (d *userGormDAO) ListFriends(ctx context.Context, userID string, limit, offset int) ([]*dao.FriendRow, error) {
	var friends []*dao.FriendRow
	err := d.getDB().WithContext(ctx).
		Raw(friendsQuery, userID, limit, offset).
		Scan(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}
