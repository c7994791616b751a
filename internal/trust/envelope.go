// Package trust implements the signed plugin request pipeline: envelope
// schema validation, freshness and replay checks, signature
// verification, permission gating, and response signing.
package trust

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/gatherhall/plugin-trust/pkg/errors"
)

// Envelope kinds. Read requests and actions share one envelope shape
// and differ in side effects.
const (
	EnvelopeTypeRequest = "request"
	EnvelopeTypeAction  = "action"
)

// Inner request shapes. The set is closed; anything else is rejected
// before signature verification.
const (
	RequestUserInfo      = "userInfo"
	RequestCommunityInfo = "communityInfo"
	RequestUserFriends   = "userFriends"
	ActionGiveRole       = "giveRole"
)

// RequestData is the inner payload of a plugin request envelope. Fields
// beyond Type are shape-specific.
type RequestData struct {
	Type string `json:"type"`

	// userFriends pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// giveRole target
	UserID string `json:"userId,omitempty"`
	RoleID string `json:"roleId,omitempty"`
}

// Envelope is the parsed plugin request. PluginID references the
// installation (communityPlugin), not the plugin definition. RequestID
// carries an embedded millisecond timestamp as its second dash-separated
// segment.
type Envelope struct {
	Type      string      `json:"type"`
	PluginID  string      `json:"pluginId"`
	RequestID string      `json:"requestId"`
	IframeUID string      `json:"iframeUid"`
	Data      RequestData `json:"data"`
}

// ParseEnvelope deserializes the raw signed request body. The raw bytes
// must be retained by the caller: the signature covers them exactly as
// sent.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, apperrors.ErrInvalidRequest.WithError(err)
	}
	return &envelope, nil
}

// Validate checks the envelope against the closed set of request
// shapes.
func (e *Envelope) Validate() error {
	if e.PluginID == "" || e.RequestID == "" || e.IframeUID == "" {
		return apperrors.ErrInvalidRequest
	}
	if _, err := e.Timestamp(); err != nil {
		return err
	}

	switch e.Type {
	case EnvelopeTypeRequest:
		switch e.Data.Type {
		case RequestUserInfo, RequestCommunityInfo:
			return nil
		case RequestUserFriends:
			if e.Data.Limit <= 0 || e.Data.Offset < 0 {
				return apperrors.ErrInvalidRequest
			}
			return nil
		}
	case EnvelopeTypeAction:
		if e.Data.Type == ActionGiveRole {
			if e.Data.UserID == "" || e.Data.RoleID == "" {
				return apperrors.ErrInvalidRequest
			}
			return nil
		}
	}
	return apperrors.ErrInvalidRequest
}

// Timestamp extracts the embedded creation time from the request id
// (format "<opaque>-<epochMillis>").
func (e *Envelope) Timestamp() (time.Time, error) {
	parts := strings.Split(e.RequestID, "-")
	if len(parts) < 2 {
		return time.Time{}, apperrors.ErrInvalidRequest
	}
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidRequest
	}
	return time.UnixMilli(millis), nil
}
