// Package mocks provides in-memory repository and collaborator mocks
// for service-level tests.
package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gatherhall/plugin-trust/internal/domain/dao"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
)

// MockPluginRepository is a mock implementation of PluginRepository
type MockPluginRepository struct {
	mu      sync.RWMutex
	plugins map[string]*entity.Plugin

	// AppstoreRows backs the catalog queries directly
	AppstoreRows []*dao.AppstorePluginRow

	// Error injection
	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error

	// DeletedCommunityIDs is returned by DeleteCascade
	DeletedCommunityIDs []string

	// Purge recording
	PurgeErr     error
	PurgedCount  int64
	PurgeCutoffs []time.Time
}

var _ repository.PluginRepository = (*MockPluginRepository)(nil)

func NewMockPluginRepository() *MockPluginRepository {
	return &MockPluginRepository{plugins: make(map[string]*entity.Plugin)}
}

// AddPlugin seeds a plugin definition.
func (r *MockPluginRepository) AddPlugin(plugin *entity.Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[plugin.ID] = plugin
}

func (r *MockPluginRepository) CreateWithInstallation(ctx context.Context, plugin *entity.Plugin, installation *entity.CommunityPlugin) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[plugin.ID] = plugin
	return nil
}

func (r *MockPluginRepository) GetByID(ctx context.Context, id string) (*entity.Plugin, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins[id], nil
}

func (r *MockPluginRepository) UpdateContent(ctx context.Context, plugin *entity.Plugin) error {
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[plugin.ID] = plugin
	return nil
}

func (r *MockPluginRepository) DeleteCascade(ctx context.Context, pluginID string) ([]string, error) {
	if r.DeleteErr != nil {
		return nil, r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plugins, pluginID)
	return r.DeletedCommunityIDs, nil
}

func (r *MockPluginRepository) GetAppstorePlugin(ctx context.Context, pluginID string) (*dao.AppstorePluginRow, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	for _, row := range r.AppstoreRows {
		if row.PluginID == pluginID {
			return row, nil
		}
	}
	return nil, nil
}

func (r *MockPluginRepository) ListAppstorePlugins(ctx context.Context, query dao.AppstoreQuery) ([]*dao.AppstorePluginRow, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	var out []*dao.AppstorePluginRow
	for _, row := range r.AppstoreRows {
		if query.Search != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(query.Search)) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *MockPluginRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.PurgeErr != nil {
		return 0, r.PurgeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PurgeCutoffs = append(r.PurgeCutoffs, cutoff)
	return r.PurgedCount, nil
}

// MockCommunityPluginRepository is a mock implementation of CommunityPluginRepository
type MockCommunityPluginRepository struct {
	mu            sync.RWMutex
	installations map[string]*entity.CommunityPlugin

	// Error injection
	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error
}

var _ repository.CommunityPluginRepository = (*MockCommunityPluginRepository)(nil)

func NewMockCommunityPluginRepository() *MockCommunityPluginRepository {
	return &MockCommunityPluginRepository{installations: make(map[string]*entity.CommunityPlugin)}
}

// AddInstallation seeds an installation.
func (r *MockCommunityPluginRepository) AddInstallation(installation *entity.CommunityPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.installations[installation.ID] = installation
}

func (r *MockCommunityPluginRepository) Create(ctx context.Context, installation *entity.CommunityPlugin) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.installations[installation.ID] = installation
	return nil
}

func (r *MockCommunityPluginRepository) GetByID(ctx context.Context, id string) (*entity.CommunityPlugin, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.installations[id], nil
}

func (r *MockCommunityPluginRepository) GetByCommunityAndPlugin(ctx context.Context, communityID, pluginID string) (*entity.CommunityPlugin, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, installation := range r.installations {
		if installation.CommunityID == communityID && installation.PluginID == pluginID {
			return installation, nil
		}
	}
	return nil, nil
}

func (r *MockCommunityPluginRepository) Update(ctx context.Context, installation *entity.CommunityPlugin) error {
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.installations[installation.ID] = installation
	return nil
}

func (r *MockCommunityPluginRepository) Delete(ctx context.Context, id string) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.installations, id)
	return nil
}

func (r *MockCommunityPluginRepository) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	if r.GetErr != nil {
		return 0, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, installation := range r.installations {
		if installation.CommunityID == communityID {
			count++
		}
	}
	return count, nil
}

func (r *MockCommunityPluginRepository) ListByCommunity(ctx context.Context, communityID string) ([]*entity.CommunityPlugin, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.CommunityPlugin
	for _, installation := range r.installations {
		if installation.CommunityID == communityID {
			out = append(out, installation)
		}
	}
	return out, nil
}

func (r *MockCommunityPluginRepository) ListCommunityIDs(ctx context.Context, pluginID string, limit, offset int) ([]string, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, installation := range r.installations {
		if installation.PluginID == pluginID {
			out = append(out, installation.CommunityID)
		}
	}
	return out, nil
}

// MockUserPluginStateRepository is a mock implementation of UserPluginStateRepository
type MockUserPluginStateRepository struct {
	mu     sync.RWMutex
	states map[string]*entity.UserPluginState

	// Error injection
	SaveErr error
	GetErr  error

	// ResetCalls records plugin ids passed to ResetByPlugin
	ResetCalls []string
}

var _ repository.UserPluginStateRepository = (*MockUserPluginStateRepository)(nil)

func NewMockUserPluginStateRepository() *MockUserPluginStateRepository {
	return &MockUserPluginStateRepository{states: make(map[string]*entity.UserPluginState)}
}

func stateKey(userID, pluginID string) string {
	return userID + "/" + pluginID
}

func (r *MockUserPluginStateRepository) Save(ctx context.Context, state *entity.UserPluginState) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[stateKey(state.UserID, state.PluginID)] = state
	return nil
}

func (r *MockUserPluginStateRepository) GetByUserAndPlugin(ctx context.Context, userID, pluginID string) (*entity.UserPluginState, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[stateKey(userID, pluginID)], nil
}

func (r *MockUserPluginStateRepository) ResetByPlugin(ctx context.Context, pluginID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResetCalls = append(r.ResetCalls, pluginID)
	for _, state := range r.states {
		if state.PluginID == pluginID {
			state.AcceptedPermissions = nil
		}
	}
	return nil
}

// MockCommunityRepository is a mock implementation of CommunityRepository
type MockCommunityRepository struct {
	mu          sync.RWMutex
	communities map[string]*entity.Community
	roles       map[string]*entity.Role
	assignments map[string][]string // userID -> role ids

	// Error injection
	GetErr    error
	AssignErr error
}

var _ repository.CommunityRepository = (*MockCommunityRepository)(nil)

func NewMockCommunityRepository() *MockCommunityRepository {
	return &MockCommunityRepository{
		communities: make(map[string]*entity.Community),
		roles:       make(map[string]*entity.Role),
		assignments: make(map[string][]string),
	}
}

// AddCommunity seeds a community.
func (r *MockCommunityRepository) AddCommunity(community *entity.Community) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.communities[community.ID] = community
}

// AddRole seeds a role.
func (r *MockCommunityRepository) AddRole(role *entity.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.ID] = role
}

// Grant assigns a role to a user directly.
func (r *MockCommunityRepository) Grant(userID, roleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[userID] = append(r.assignments[userID], roleID)
}

func (r *MockCommunityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.communities[id], nil
}

func (r *MockCommunityRepository) GetRole(ctx context.Context, roleID string) (*entity.Role, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[roleID], nil
}

func (r *MockCommunityRepository) GetAdminRole(ctx context.Context, communityID string) (*entity.Role, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, role := range r.roles {
		if role.CommunityID == communityID && role.Title == entity.PredefinedRoleAdmin && role.Type == entity.RoleTypePredefined {
			return role, nil
		}
	}
	return nil, nil
}

func (r *MockCommunityRepository) ListRoles(ctx context.Context, communityID string) ([]*entity.Role, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Role
	for _, role := range r.roles {
		if role.CommunityID == communityID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *MockCommunityRepository) UserHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	if r.GetErr != nil {
		return false, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.assignments[userID] {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockCommunityRepository) ListUserRoleIDs(ctx context.Context, userID, communityID string) ([]string, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, id := range r.assignments[userID] {
		if role, ok := r.roles[id]; ok && role.CommunityID == communityID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *MockCommunityRepository) AssignRole(ctx context.Context, communityID, roleID, userID string) error {
	if r.AssignErr != nil {
		return r.AssignErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.assignments[userID] {
		if id == roleID {
			return nil
		}
	}
	r.assignments[userID] = append(r.assignments[userID], roleID)
	return nil
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mu sync.RWMutex

	// UnresolvedCounts maps target id to unresolved report count
	UnresolvedCounts map[string]int64

	// Error injection
	CountErr error
}

var _ repository.ReportRepository = (*MockReportRepository)(nil)

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{UnresolvedCounts: make(map[string]int64)}
}

func (r *MockReportRepository) CountUnresolved(ctx context.Context, targetID string) (int64, error) {
	if r.CountErr != nil {
		return 0, r.CountErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.UnresolvedCounts[targetID], nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User

	// Friends backs ListFriends for any user
	Friends []*dao.FriendRow

	// Error injection
	GetErr error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*entity.User)}
}

// AddUser seeds a user.
func (r *MockUserRepository) AddUser(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.AddUser(user)
	return nil
}

func (r *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id], nil
}

func (r *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (r *MockUserRepository) ListFriends(ctx context.Context, userID string, limit, offset int) ([]*dao.FriendRow, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	if offset >= len(r.Friends) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.Friends) {
		end = len(r.Friends)
	}
	return r.Friends[offset:end], nil
}
