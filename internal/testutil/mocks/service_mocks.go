package mocks

import (
	"context"

	"github.com/gatherhall/plugin-trust/internal/domain/service"
	"github.com/gatherhall/plugin-trust/internal/dto/request"
	"github.com/gatherhall/plugin-trust/internal/dto/response"
)

// MockPluginService is a mock implementation of PluginService with
// per-method canned results and error injection.
type MockPluginService struct {
	CreateResp  *response.CreatePluginResponse
	SignedResp  *response.SignedPluginResponse
	AppstoreRow *response.AppstorePluginResponse
	Appstore    *response.AppstorePluginsResponse
	Communities *response.PluginCommunitiesResponse

	Err error

	// LastUserID records the caller identity passed to the last call
	LastUserID string
}

var _ service.PluginService = (*MockPluginService)(nil)

func NewMockPluginService() *MockPluginService {
	return &MockPluginService{}
}

func (s *MockPluginService) CreatePlugin(ctx context.Context, userID string, req *request.CreatePluginRequest) (*response.CreatePluginResponse, error) {
	s.LastUserID = userID
	if s.Err != nil {
		return nil, s.Err
	}
	return s.CreateResp, nil
}

func (s *MockPluginService) ClonePlugin(ctx context.Context, userID string, req *request.ClonePluginRequest) (*response.OkResponse, error) {
	s.LastUserID = userID
	if s.Err != nil {
		return nil, s.Err
	}
	return &response.OkResponse{OK: true}, nil
}

func (s *MockPluginService) UpdatePlugin(ctx context.Context, userID string, req *request.UpdatePluginRequest) (*response.OkResponse, error) {
	s.LastUserID = userID
	if s.Err != nil {
		return nil, s.Err
	}
	return &response.OkResponse{OK: true}, nil
}

func (s *MockPluginService) DeletePlugin(ctx context.Context, userID string, req *request.DeletePluginRequest) (*response.OkResponse, error) {
	s.LastUserID = userID
	if s.Err != nil {
		return nil, s.Err
	}
	return &response.OkResponse{OK: true}, nil
}

func (s *MockPluginService) HandlePluginRequest(ctx context.Context, userID string, req *request.PluginRequestRequest) (*response.SignedPluginResponse, error) {
	s.LastUserID = userID
	if s.Err != nil {
		return nil, s.Err
	}
	return s.SignedResp, nil
}

func (s *MockPluginService) AcceptPluginPermissions(ctx context.Context, userID string, req *request.AcceptPluginPermissionsRequest) (*response.OkResponse, error) {
	s.LastUserID = userID
	if s.Err != nil {
		return nil, s.Err
	}
	return &response.OkResponse{OK: true}, nil
}

func (s *MockPluginService) GetAppstorePlugin(ctx context.Context, req *request.GetAppstorePluginRequest) (*response.AppstorePluginResponse, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.AppstoreRow, nil
}

func (s *MockPluginService) GetAppstorePlugins(ctx context.Context, req *request.GetAppstorePluginsRequest) (*response.AppstorePluginsResponse, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Appstore, nil
}

func (s *MockPluginService) GetPluginCommunities(ctx context.Context, req *request.GetPluginCommunitiesRequest) (*response.PluginCommunitiesResponse, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Communities, nil
}
