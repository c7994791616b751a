package gorm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

func seedCommunity(t *testing.T, db *gorm.DB, title string) *entity.Community {
	community := &entity.Community{ID: uuid.NewString(), Title: title}
	require.NoError(t, db.Create(community).Error)
	return community
}

func seedRole(t *testing.T, db *gorm.DB, communityID, title string, roleType entity.RoleType) *entity.Role {
	role := &entity.Role{
		ID:          uuid.NewString(),
		CommunityID: communityID,
		Title:       title,
		Type:        roleType,
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

func TestCommunityDAO_FindByID(t *testing.T) {
	db := setupTestDB(t)
	communityDAO := NewCommunityDAO(db)
	ctx := context.Background()

	community := seedCommunity(t, db, "Test Community")

	found, err := communityDAO.FindByID(ctx, community.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Test Community", found.Title)

	missing, err := communityDAO.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCommunityDAO_FindAdminRole(t *testing.T) {
	db := setupTestDB(t)
	communityDAO := NewCommunityDAO(db)
	ctx := context.Background()

	community := seedCommunity(t, db, "Test Community")
	seedRole(t, db, community.ID, entity.PredefinedRoleMember, entity.RoleTypePredefined)
	admin := seedRole(t, db, community.ID, entity.PredefinedRoleAdmin, entity.RoleTypePredefined)
	// custom role named Admin must not shadow the predefined one
	seedRole(t, db, community.ID, entity.PredefinedRoleAdmin, entity.RoleTypeCustom)

	found, err := communityDAO.FindAdminRole(ctx, community.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, admin.ID, found.ID)
}

func TestCommunityDAO_RolesAndAssignments(t *testing.T) {
	db := setupTestDB(t)
	communityDAO := NewCommunityDAO(db)
	ctx := context.Background()

	community := seedCommunity(t, db, "Test Community")
	admin := seedRole(t, db, community.ID, entity.PredefinedRoleAdmin, entity.RoleTypePredefined)
	vip := seedRole(t, db, community.ID, "VIP", entity.RoleTypeCustom)
	other := seedCommunity(t, db, "Other Community")
	otherRole := seedRole(t, db, other.ID, "Stranger", entity.RoleTypeCustom)

	roles, err := communityDAO.ListRoles(ctx, community.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	require.NoError(t, communityDAO.AssignRole(ctx, community.ID, vip.ID, "user-1"))
	// re-granting is a no-op
	require.NoError(t, communityDAO.AssignRole(ctx, community.ID, vip.ID, "user-1"))
	require.NoError(t, communityDAO.AssignRole(ctx, other.ID, otherRole.ID, "user-1"))

	has, err := communityDAO.UserHasRole(ctx, "user-1", vip.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = communityDAO.UserHasRole(ctx, "user-1", admin.ID)
	require.NoError(t, err)
	assert.False(t, has)

	roleIDs, err := communityDAO.ListUserRoleIDs(ctx, "user-1", community.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{vip.ID}, roleIDs)

	var count int64
	require.NoError(t, db.Model(&entity.UserRoleAssignment{}).
		Where("user_id = ? AND role_id = ?", "user-1", vip.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserDAO_FindByID_PreloadsRelations(t *testing.T) {
	db := setupTestDB(t)
	userDAO := NewUserDAO(db)
	ctx := context.Background()

	user := &entity.User{
		ID:             uuid.NewString(),
		Username:       "alice",
		Password:       "hashedpassword",
		DisplayName:    "Alice",
		DisplayAccount: entity.AccountTypeTwitter,
		Accounts: []entity.UserAccount{
			{Type: entity.AccountTypeTwitter, Username: "alice_tw", ImageID: "img-1"},
		},
	}
	require.NoError(t, userDAO.Create(ctx, user))

	found, err := userDAO.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Accounts, 1)
	assert.Equal(t, "alice_tw", found.Accounts[0].Username)

	missing, err := userDAO.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserDAO_ListFriends(t *testing.T) {
	db := setupTestDB(t)
	userDAO := NewUserDAO(db)
	ctx := context.Background()

	owner := &entity.User{ID: uuid.NewString(), Username: "owner", Password: "x"}
	require.NoError(t, userDAO.Create(ctx, owner))

	names := []string{"Alice", "Bob", "Carol"}
	for i, name := range names {
		friend := &entity.User{
			ID:             uuid.NewString(),
			Username:       name,
			Password:       "x",
			DisplayName:    name,
			DisplayAccount: entity.AccountTypeTwitter,
		}
		if i == 0 {
			friend.Accounts = []entity.UserAccount{
				{Type: entity.AccountTypeTwitter, Username: "alice_tw", ImageID: "img-alice"},
			}
		}
		require.NoError(t, userDAO.Create(ctx, friend))
		require.NoError(t, db.Create(&entity.Friendship{UserID: owner.ID, FriendID: friend.ID}).Error)
	}

	friends, err := userDAO.ListFriends(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, friends, 3)
	assert.Equal(t, "Alice", friends[0].Name)
	assert.Equal(t, "img-alice", friends[0].ImageID)
	assert.Empty(t, friends[1].ImageID)

	page, err := userDAO.ListFriends(ctx, owner.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Carol", page[0].Name)
}
