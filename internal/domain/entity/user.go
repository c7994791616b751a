package entity

import (
	"time"

	"gorm.io/gorm"
)

// AccountType identifies a linked external account.
type AccountType string

const (
	AccountTypeCG        AccountType = "cg"
	AccountTypeTwitter   AccountType = "twitter"
	AccountTypeLukso     AccountType = "lukso"
	AccountTypeFarcaster AccountType = "farcaster"
)

// PremiumFeatureName is a user premium feature tier.
type PremiumFeatureName string

const (
	PremiumSupporter1 PremiumFeatureName = "SUPPORTER_1"
	PremiumSupporter2 PremiumFeatureName = "SUPPORTER_2"
)

// User is a platform account. Only the fields the trust pipeline reads
// live here; profile editing is out of scope.
type User struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Username       string         `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password       string         `gorm:"size:255;not null" json:"-"`
	DisplayName    string         `gorm:"size:200" json:"displayName"`
	Email          string         `gorm:"size:255;index" json:"email"`
	EmailVerified  bool           `gorm:"not null;default:false" json:"emailVerified"`
	DisplayAccount AccountType    `gorm:"size:20" json:"displayAccount"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Accounts        []UserAccount    `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	PremiumFeatures []PremiumFeature `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Account returns the linked account of the given type, or nil.
func (u *User) Account(kind AccountType) *UserAccount {
	for i := range u.Accounts {
		if u.Accounts[i].Type == kind {
			return &u.Accounts[i]
		}
	}
	return nil
}

// PremiumTier derives the user's premium tier from active features.
func (u *User) PremiumTier(now time.Time) string {
	tier := "FREE"
	for _, feature := range u.PremiumFeatures {
		if !feature.ActiveUntil.After(now) {
			continue
		}
		switch feature.FeatureName {
		case PremiumSupporter1:
			if tier == "FREE" {
				tier = "SILVER"
			}
		case PremiumSupporter2:
			tier = "GOLD"
		}
	}
	return tier
}

// UserAccount is an external account linked to a user.
type UserAccount struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID      string      `gorm:"size:36;index;not null" json:"userId"`
	Type        AccountType `gorm:"size:20;not null" json:"type"`
	DisplayName string      `gorm:"size:200" json:"displayName"`
	Username    string      `gorm:"size:200" json:"username"`
	// Address is the universal profile address for lukso accounts.
	Address string `gorm:"size:100" json:"address"`
	// FID is the farcaster numeric id.
	FID       int64     `json:"fid"`
	ImageID   string    `gorm:"size:36" json:"imageId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for UserAccount
func (UserAccount) TableName() string {
	return "user_accounts"
}

// PremiumFeature is a purchased supporter feature with an expiry.
type PremiumFeature struct {
	ID          uint               `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID      string             `gorm:"size:36;index;not null" json:"userId"`
	FeatureName PremiumFeatureName `gorm:"size:50;not null" json:"featureName"`
	ActiveUntil time.Time          `gorm:"not null" json:"activeUntil"`
}

// TableName specifies the table name for PremiumFeature
func (PremiumFeature) TableName() string {
	return "premium_features"
}

// Friendship is a confirmed friend relation. Rows are stored once per
// direction.
type Friendship struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"size:36;uniqueIndex:idx_friend_pair;not null" json:"userId"`
	FriendID  string    `gorm:"size:36;uniqueIndex:idx_friend_pair;not null" json:"friendId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for Friendship
func (Friendship) TableName() string {
	return "friendships"
}
