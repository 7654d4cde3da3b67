package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuiter/tuiter/internal/feed"
	"github.com/tuiter/tuiter/internal/models"
)

// parseParams unmarshals a positional JSON-RPC params array
func parseParams(params json.RawMessage) ([]interface{}, error) {
	var p []interface{}
	if len(params) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// paramInt64 extracts a required integer parameter at position i
func paramInt64(p []interface{}, i int, name string) (int64, error) {
	if i >= len(p) {
		return 0, fmt.Errorf("missing required parameter: %s", name)
	}
	switch v := p[i].(type) {
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("parameter %s must be a number", name)
	}
}

// paramString extracts a required string parameter at position i
func paramString(p []interface{}, i int, name string) (string, error) {
	if i >= len(p) {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	s, ok := p[i].(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", name)
	}
	return s, nil
}

// resolveUserParam resolves a user parameter that may be a numeric id
// or a username
func resolveUserParam(ctx context.Context, users feed.UserStore, p []interface{}, i int, name string) (*models.User, error) {
	if i >= len(p) {
		return nil, fmt.Errorf("missing required parameter: %s", name)
	}
	switch v := p[i].(type) {
	case float64:
		user, err := users.Get(ctx, int64(v))
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, &models.NotFoundError{Kind: "user", ID: int64(v)}
		}
		return user, nil
	case string:
		user, err := users.GetByUsername(ctx, v)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, &models.NotFoundError{Kind: "user", Name: v}
		}
		return user, nil
	default:
		return nil, fmt.Errorf("parameter %s must be a user id or username", name)
	}
}
