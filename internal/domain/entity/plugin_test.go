package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermissionSet_Contains(t *testing.T) {
	set := PermissionSet{PermissionReadTwitter, PermissionUserAccepted}
	assert.True(t, set.Contains(PermissionReadTwitter))
	assert.True(t, set.Contains(PermissionUserAccepted))
	assert.False(t, set.Contains(PermissionReadEmail))

	var empty PermissionSet
	assert.False(t, empty.Contains(PermissionReadTwitter))
}

func TestPluginPermissions_Declared(t *testing.T) {
	perms := &PluginPermissions{
		Mandatory: PermissionSet{PermissionReadEmail},
		Optional:  PermissionSet{PermissionReadTwitter, PermissionReadFriends},
	}
	declared := perms.Declared()
	assert.Len(t, declared, 3)
	assert.True(t, declared.Contains(PermissionReadEmail))
	assert.True(t, declared.Contains(PermissionReadFriends))

	var nilPerms *PluginPermissions
	assert.Nil(t, nilPerms.Declared())
}

func TestPluginConfig_AllowsRole(t *testing.T) {
	cfg := &PluginConfig{
		CanGiveRole:     true,
		GiveableRoleIDs: []string{"role-1", "role-2"},
	}
	assert.True(t, cfg.AllowsRole("role-1"))
	assert.False(t, cfg.AllowsRole("role-3"))

	disabled := &PluginConfig{CanGiveRole: false, GiveableRoleIDs: []string{"role-1"}}
	assert.False(t, disabled.AllowsRole("role-1"))

	var nilCfg *PluginConfig
	assert.False(t, nilCfg.AllowsRole("role-1"))
}

func TestKnownPermission(t *testing.T) {
	assert.True(t, KnownPermission(PermissionReadLukso))
	assert.True(t, KnownPermission(PermissionUserAccepted))
	assert.False(t, KnownPermission(PermissionKind("WRITE_EVERYTHING")))
}

func TestPermissionSet_ScanValue(t *testing.T) {
	set := PermissionSet{PermissionReadEmail, PermissionUserAccepted}
	raw, err := set.Value()
	assert.NoError(t, err)

	var decoded PermissionSet
	assert.NoError(t, decoded.Scan(raw))
	assert.Equal(t, set, decoded)

	// NULL column leaves the set empty
	var fromNull PermissionSet
	assert.NoError(t, fromNull.Scan(nil))
	assert.Empty(t, fromNull)
}

func TestPluginConfig_ScanValue(t *testing.T) {
	cfg := PluginConfig{CanGiveRole: true, GiveableRoleIDs: []string{"r1"}}
	raw, err := cfg.Value()
	assert.NoError(t, err)

	var decoded PluginConfig
	assert.NoError(t, decoded.Scan(string(raw.([]byte))))
	assert.Equal(t, cfg, decoded)
}

func TestUser_PremiumTier(t *testing.T) {
	now := time.Now()
	user := &User{
		PremiumFeatures: []PremiumFeature{
			{FeatureName: PremiumSupporter1, ActiveUntil: now.Add(time.Hour)},
		},
	}
	assert.Equal(t, "SILVER", user.PremiumTier(now))

	user.PremiumFeatures = append(user.PremiumFeatures, PremiumFeature{
		FeatureName: PremiumSupporter2, ActiveUntil: now.Add(time.Hour),
	})
	assert.Equal(t, "GOLD", user.PremiumTier(now))

	expired := &User{
		PremiumFeatures: []PremiumFeature{
			{FeatureName: PremiumSupporter2, ActiveUntil: now.Add(-time.Hour)},
		},
	}
	assert.Equal(t, "FREE", expired.PremiumTier(now))
}

func TestUser_Account(t *testing.T) {
	user := &User{
		Accounts: []UserAccount{
			{Type: AccountTypeCG, DisplayName: "cg name"},
			{Type: AccountTypeTwitter, DisplayName: "tw name"},
		},
	}
	assert.Equal(t, "tw name", user.Account(AccountTypeTwitter).DisplayName)
	assert.Nil(t, user.Account(AccountTypeFarcaster))
}

func TestCommunity_PremiumName(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Hour)
	community := &Community{PremiumFeature: CommunityPremiumGold, PremiumActiveUntil: &until}
	assert.Equal(t, "COMMUNITY_GOLD", community.PremiumName(now))

	past := now.Add(-time.Hour)
	community.PremiumActiveUntil = &past
	assert.Equal(t, "FREE", community.PremiumName(now))
}

func TestRole_IsPredefined(t *testing.T) {
	assert.True(t, (&Role{Type: RoleTypePredefined}).IsPredefined())
	assert.False(t, (&Role{Type: RoleTypeCustom}).IsPredefined())
}
