package entity

import (
	"time"

	"gorm.io/gorm"
)

// RoleType distinguishes built-in roles from community-defined ones.
type RoleType string

const (
	RoleTypePredefined RoleType = "PREDEFINED"
	RoleTypeCustom     RoleType = "CUSTOM"
)

// Predefined role titles.
const (
	PredefinedRoleAdmin  = "Admin"
	PredefinedRoleMember = "Member"
	PredefinedRolePublic = "Public"
)

// CommunityPremiumName is a community premium feature tier.
type CommunityPremiumName string

const (
	CommunityPremiumSilver CommunityPremiumName = "COMMUNITY_SILVER"
	CommunityPremiumGold   CommunityPremiumName = "COMMUNITY_GOLD"
)

// Community is the owning scope for plugins, installations, and roles.
type Community struct {
	ID                 string               `gorm:"primaryKey;size:36" json:"id"`
	Title              string               `gorm:"size:200;not null" json:"title"`
	URL                string               `gorm:"size:500" json:"url"`
	Official           bool                 `gorm:"not null;default:false" json:"official"`
	LogoSmallID        string               `gorm:"size:36" json:"logoSmallId"`
	LogoLargeID        string               `gorm:"size:36" json:"logoLargeId"`
	HeaderImageID      string               `gorm:"size:36" json:"headerImageId"`
	PremiumFeature     CommunityPremiumName `gorm:"size:50" json:"premiumFeature"`
	PremiumActiveUntil *time.Time           `json:"premiumActiveUntil"`
	CreatedAt          time.Time            `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time            `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt          gorm.DeletedAt       `gorm:"index" json:"-"`
}

// TableName specifies the table name for Community
func (Community) TableName() string {
	return "communities"
}

// PremiumName returns the active premium tier, or "FREE" when none is
// active.
func (c *Community) PremiumName(now time.Time) string {
	if c.PremiumFeature != "" && c.PremiumActiveUntil != nil && c.PremiumActiveUntil.After(now) {
		return string(c.PremiumFeature)
	}
	return "FREE"
}

// Role is a community role. Predefined roles (Admin/Member/Public) are
// created with the community and are never grantable through plugins.
type Role struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	CommunityID string         `gorm:"size:36;index;not null" json:"communityId"`
	Title       string         `gorm:"size:100;not null" json:"title"`
	Type        RoleType       `gorm:"size:20;not null" json:"type"`
	Permissions StringList     `gorm:"type:text" json:"permissions"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Role
func (Role) TableName() string {
	return "roles"
}

// IsPredefined reports whether the role is a built-in role.
func (r *Role) IsPredefined() bool {
	return r.Type == RoleTypePredefined
}

// UserRoleAssignment links a user to a role within a community.
type UserRoleAssignment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID      string    `gorm:"size:36;uniqueIndex:idx_user_role;not null" json:"userId"`
	RoleID      string    `gorm:"size:36;uniqueIndex:idx_user_role;index;not null" json:"roleId"`
	CommunityID string    `gorm:"size:36;index;not null" json:"communityId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for UserRoleAssignment
func (UserRoleAssignment) TableName() string {
	return "user_roles"
}
