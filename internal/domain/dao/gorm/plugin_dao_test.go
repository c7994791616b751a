package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entity.Plugin{}, &entity.CommunityPlugin{}, &entity.UserPluginState{},
		&entity.Report{}, &entity.Community{}, &entity.Role{}, &entity.UserRoleAssignment{},
		&entity.User{}, &entity.UserAccount{}, &entity.PremiumFeature{}, &entity.Friendship{},
	)
	require.NoError(t, err)

	return db
}

func newTestPlugin(ownerCommunityID string) *entity.Plugin {
	return &entity.Plugin{
		ID:               uuid.NewString(),
		OwnerCommunityID: ownerCommunityID,
		URL:              "https://plugin.example.com",
		PrivateKey:       "private-pem",
		PublicKey:        "public-pem",
		Permissions: entity.PluginPermissions{
			Mandatory: entity.PermissionSet{entity.PermissionReadTwitter},
			Optional:  entity.PermissionSet{entity.PermissionReadEmail},
		},
		Description: "a test plugin",
		Tags:        entity.StringList{"games", "social"},
	}
}

func newTestInstallation(communityID, pluginID, name string) *entity.CommunityPlugin {
	return &entity.CommunityPlugin{
		ID:          uuid.NewString(),
		CommunityID: communityID,
		PluginID:    pluginID,
		Name:        name,
	}
}

func TestPluginDAO_CreateWithInstallation(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	installation := newTestInstallation("community-1", plugin.ID, "My Plugin")

	err := pluginDAO.CreateWithInstallation(ctx, plugin, installation)
	assert.NoError(t, err)

	found, err := pluginDAO.FindByID(ctx, plugin.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, plugin.URL, found.URL)
	assert.Equal(t, entity.PermissionSet{entity.PermissionReadTwitter}, found.Permissions.Mandatory)

	stored, err := NewCommunityPluginDAO(db).FindByID(ctx, installation.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "My Plugin", stored.Name)
}

func TestPluginDAO_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)

	found, err := pluginDAO.FindByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestPluginDAO_UpdateContent(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	installation := newTestInstallation("community-1", plugin.ID, "My Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, installation))

	plugin.URL = "https://plugin.example.com/v2"
	plugin.Clonable = true
	plugin.Description = "updated"
	err := pluginDAO.UpdateContent(ctx, plugin)
	assert.NoError(t, err)

	found, err := pluginDAO.FindByID(ctx, plugin.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "https://plugin.example.com/v2", found.URL)
	assert.True(t, found.Clonable)
	assert.Equal(t, "updated", found.Description)
	// key material is never touched by content updates
	assert.Equal(t, "private-pem", found.PrivateKey)
}

func TestPluginDAO_SoftDeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	installDAO := NewCommunityPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	owner := newTestInstallation("community-1", plugin.ID, "My Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, owner))

	other := newTestInstallation("community-2", plugin.ID, "Cloned")
	require.NoError(t, installDAO.Create(ctx, other))

	communityIDs, err := pluginDAO.SoftDeleteCascade(ctx, plugin.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"community-1", "community-2"}, communityIDs)

	found, err := pluginDAO.FindByID(ctx, plugin.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	stored, err := installDAO.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPluginDAO_FindAppstorePlugin(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	installDAO := NewCommunityPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	plugin.AppstoreEnabled = true
	owner := newTestInstallation("community-1", plugin.ID, "Featured Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, owner))
	require.NoError(t, installDAO.Create(ctx, newTestInstallation("community-2", plugin.ID, "Clone")))

	row, err := pluginDAO.FindAppstorePlugin(ctx, plugin.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Featured Plugin", row.Name)
	assert.Equal(t, int64(2), row.CommunityCount)
	assert.Equal(t, entity.StringList{"games", "social"}, row.Tags)
}

func TestPluginDAO_FindAppstorePlugin_PrivatePluginHidden(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	owner := newTestInstallation("community-1", plugin.ID, "Private Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, owner))

	row, err := pluginDAO.FindAppstorePlugin(ctx, plugin.ID)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestPluginDAO_ListAppstorePlugins(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	reportDAO := NewReportDAO(db)
	ctx := context.Background()

	listed := newTestPlugin("community-1")
	listed.AppstoreEnabled = true
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, listed,
		newTestInstallation("community-1", listed.ID, "Listed Plugin")))

	clonable := newTestPlugin("community-2")
	clonable.Clonable = true
	clonable.Tags = entity.StringList{"tools"}
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, clonable,
		newTestInstallation("community-2", clonable.ID, "Clonable Plugin")))

	private := newTestPlugin("community-3")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, private,
		newTestInstallation("community-3", private.ID, "Private Plugin")))

	rows, err := pluginDAO.ListAppstorePlugins(ctx, dao.AppstoreQuery{MinReportsToFlag: 3})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	names := []string{rows[0].Name, rows[1].Name}
	assert.ElementsMatch(t, []string{"Listed Plugin", "Clonable Plugin"}, names)

	// reported clonable plugins disappear; appstore-enabled ones stay
	for i := 0; i < 3; i++ {
		require.NoError(t, reportDAO.Create(ctx, &entity.Report{ID: uuid.NewString(), TargetID: clonable.ID}))
		require.NoError(t, reportDAO.Create(ctx, &entity.Report{ID: uuid.NewString(), TargetID: listed.ID}))
	}

	rows, err = pluginDAO.ListAppstorePlugins(ctx, dao.AppstoreQuery{MinReportsToFlag: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Listed Plugin", rows[0].Name)
}

func TestPluginDAO_ListAppstorePlugins_Search(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	ctx := context.Background()

	chess := newTestPlugin("community-1")
	chess.AppstoreEnabled = true
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, chess,
		newTestInstallation("community-1", chess.ID, "Chess Tournaments")))

	chat := newTestPlugin("community-2")
	chat.AppstoreEnabled = true
	// a description mentioning the term does not make it a match
	chat.Description = "chess-themed chat rooms"
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, chat,
		newTestInstallation("community-2", chat.ID, "Chat Bridge")))

	rows, err := pluginDAO.ListAppstorePlugins(ctx, dao.AppstoreQuery{Search: "chess", MinReportsToFlag: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Chess Tournaments", rows[0].Name)

	// LIKE metacharacters in the search term match literally
	rows, err = pluginDAO.ListAppstorePlugins(ctx, dao.AppstoreQuery{Search: "%", MinReportsToFlag: 3})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPluginDAO_ListAppstorePlugins_TagFilter(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	ctx := context.Background()

	games := newTestPlugin("community-1")
	games.AppstoreEnabled = true
	games.Tags = entity.StringList{"games", "social"}
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, games,
		newTestInstallation("community-1", games.ID, "Games Plugin")))

	tools := newTestPlugin("community-2")
	tools.AppstoreEnabled = true
	tools.Tags = entity.StringList{"tools"}
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, tools,
		newTestInstallation("community-2", tools.ID, "Tools Plugin")))

	rows, err := pluginDAO.ListAppstorePlugins(ctx, dao.AppstoreQuery{Tags: []string{"games"}, MinReportsToFlag: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Games Plugin", rows[0].Name)
	assert.Equal(t, entity.StringList{"games", "social"}, rows[0].Tags)
}

func TestPluginDAO_ListAppstorePlugins_TagFilterBeforePagination(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	ctx := context.Background()

	// three untagged plugins would fill the first page if tags were
	// filtered after pagination
	for i := 0; i < 3; i++ {
		untagged := newTestPlugin(uuid.NewString())
		untagged.AppstoreEnabled = true
		untagged.Tags = nil
		require.NoError(t, pluginDAO.CreateWithInstallation(ctx, untagged,
			newTestInstallation(untagged.OwnerCommunityID, untagged.ID, "Untagged")))
	}
	for i := 0; i < 2; i++ {
		tagged := newTestPlugin(uuid.NewString())
		tagged.AppstoreEnabled = true
		tagged.Tags = entity.StringList{"games"}
		require.NoError(t, pluginDAO.CreateWithInstallation(ctx, tagged,
			newTestInstallation(tagged.OwnerCommunityID, tagged.ID, "Tagged")))
	}

	rows, err := pluginDAO.ListAppstorePlugins(ctx, dao.AppstoreQuery{
		Tags: []string{"games"}, Limit: 3, Offset: 0, MinReportsToFlag: 3,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "Tagged", row.Name)
		assert.Equal(t, entity.StringList{"games"}, row.Tags)
	}
}

func TestPluginDAO_ListAppstorePlugins_AppstoreEnabledSortFirst(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	installDAO := NewCommunityPluginDAO(db)
	ctx := context.Background()

	featured := newTestPlugin("community-1")
	featured.AppstoreEnabled = true
	featured.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, featured,
		newTestInstallation("community-1", featured.ID, "Old Featured")))

	// newer and more widely installed, but merely clonable
	clonable := newTestPlugin("community-2")
	clonable.Clonable = true
	clonable.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, clonable,
		newTestInstallation("community-2", clonable.ID, "New Clonable")))
	require.NoError(t, installDAO.Create(ctx, newTestInstallation("community-3", clonable.ID, "Clone A")))
	require.NoError(t, installDAO.Create(ctx, newTestInstallation("community-4", clonable.ID, "Clone B")))

	rows, err := pluginDAO.ListAppstorePlugins(ctx, dao.AppstoreQuery{MinReportsToFlag: 3})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Old Featured", rows[0].Name)
	assert.Equal(t, "New Clonable", rows[1].Name)
}

func TestPluginDAO_PurgeDeletedBefore(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	owner := newTestInstallation("community-1", plugin.ID, "My Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, owner))

	_, err := pluginDAO.SoftDeleteCascade(ctx, plugin.ID)
	require.NoError(t, err)

	// nothing old enough yet
	purged, err := pluginDAO.PurgeDeletedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, purged)

	purged, err = pluginDAO.PurgeDeletedBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	var count int64
	require.NoError(t, db.Unscoped().Model(&entity.Plugin{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommunityPluginDAO_FindByCommunityAndPlugin(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	installDAO := NewCommunityPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	owner := newTestInstallation("community-1", plugin.ID, "My Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, owner))

	found, err := installDAO.FindByCommunityAndPlugin(ctx, "community-1", plugin.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, owner.ID, found.ID)

	missing, err := installDAO.FindByCommunityAndPlugin(ctx, "community-9", plugin.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCommunityPluginDAO_Update(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	installDAO := NewCommunityPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	owner := newTestInstallation("community-1", plugin.ID, "My Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, owner))

	owner.Name = "Renamed"
	owner.Config = &entity.PluginConfig{CanGiveRole: true, GiveableRoleIDs: []string{"role-1"}}
	require.NoError(t, installDAO.Update(ctx, owner))

	found, err := installDAO.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Renamed", found.Name)
	require.NotNil(t, found.Config)
	assert.True(t, found.Config.CanGiveRole)
	assert.Equal(t, []string{"role-1"}, found.Config.GiveableRoleIDs)
}

func TestCommunityPluginDAO_CountAndList(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	installDAO := NewCommunityPluginDAO(db)
	ctx := context.Background()

	first := newTestPlugin("community-1")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, first,
		newTestInstallation("community-1", first.ID, "First")))

	second := newTestPlugin("community-2")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, second,
		newTestInstallation("community-2", second.ID, "Second")))
	require.NoError(t, installDAO.Create(ctx, newTestInstallation("community-1", second.ID, "Second Here")))

	count, err := installDAO.CountByCommunity(ctx, "community-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	installations, err := installDAO.ListByCommunity(ctx, "community-1")
	require.NoError(t, err)
	assert.Len(t, installations, 2)

	communityIDs, err := installDAO.ListCommunityIDs(ctx, second.ID, -1, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"community-1", "community-2"}, communityIDs)

	limited, err := installDAO.ListCommunityIDs(ctx, second.ID, 1, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCommunityPluginDAO_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	pluginDAO := NewPluginDAO(db)
	installDAO := NewCommunityPluginDAO(db)
	ctx := context.Background()

	plugin := newTestPlugin("community-1")
	owner := newTestInstallation("community-1", plugin.ID, "My Plugin")
	require.NoError(t, pluginDAO.CreateWithInstallation(ctx, plugin, owner))
	clone := newTestInstallation("community-2", plugin.ID, "Clone")
	require.NoError(t, installDAO.Create(ctx, clone))

	require.NoError(t, installDAO.SoftDelete(ctx, clone.ID))

	found, err := installDAO.FindByID(ctx, clone.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// the plugin itself and the other installation survive
	stored, err := pluginDAO.FindByID(ctx, plugin.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestUserPluginStateDAO_UpsertReplacesAcceptedSet(t *testing.T) {
	db := setupTestDB(t)
	stateDAO := NewUserPluginStateDAO(db)
	ctx := context.Background()

	state := &entity.UserPluginState{
		UserID:              "user-1",
		PluginID:            "plugin-1",
		AcceptedPermissions: entity.PermissionSet{entity.PermissionReadTwitter, entity.PermissionUserAccepted},
	}
	require.NoError(t, stateDAO.Upsert(ctx, state))

	replacement := &entity.UserPluginState{
		UserID:              "user-1",
		PluginID:            "plugin-1",
		AcceptedPermissions: entity.PermissionSet{entity.PermissionUserAccepted},
	}
	require.NoError(t, stateDAO.Upsert(ctx, replacement))

	found, err := stateDAO.FindByUserAndPlugin(ctx, "user-1", "plugin-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.PermissionSet{entity.PermissionUserAccepted}, found.AcceptedPermissions)

	var count int64
	require.NoError(t, db.Model(&entity.UserPluginState{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserPluginStateDAO_ResetByPlugin(t *testing.T) {
	db := setupTestDB(t)
	stateDAO := NewUserPluginStateDAO(db)
	ctx := context.Background()

	require.NoError(t, stateDAO.Upsert(ctx, &entity.UserPluginState{
		UserID:              "user-1",
		PluginID:            "plugin-1",
		AcceptedPermissions: entity.PermissionSet{entity.PermissionReadTwitter},
	}))
	require.NoError(t, stateDAO.Upsert(ctx, &entity.UserPluginState{
		UserID:              "user-2",
		PluginID:            "plugin-1",
		AcceptedPermissions: entity.PermissionSet{entity.PermissionReadEmail},
	}))

	require.NoError(t, stateDAO.ResetByPlugin(ctx, "plugin-1"))

	found, err := stateDAO.FindByUserAndPlugin(ctx, "user-1", "plugin-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Empty(t, found.AcceptedPermissions)
}

func TestReportDAO_CountUnresolved(t *testing.T) {
	db := setupTestDB(t)
	reportDAO := NewReportDAO(db)
	ctx := context.Background()

	require.NoError(t, reportDAO.Create(ctx, &entity.Report{ID: uuid.NewString(), TargetID: "plugin-1"}))
	require.NoError(t, reportDAO.Create(ctx, &entity.Report{ID: uuid.NewString(), TargetID: "plugin-1", Resolved: true}))
	require.NoError(t, reportDAO.Create(ctx, &entity.Report{ID: uuid.NewString(), TargetID: "plugin-2"}))

	count, err := reportDAO.CountUnresolved(ctx, "plugin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
