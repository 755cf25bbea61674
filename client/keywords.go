package client

import (
	"context"
	"encoding/json"
)

// KeywordService asks the server to expand keywords into new subtrees.
type KeywordService struct {
	c *Client
}

// Add expands keyword server-side and attaches the generated tree under the
// root. The returned document is the server's generated map.
func (s *KeywordService) Add(ctx context.Context, keyword string) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := s.c.post(ctx, "/add", &AddKeywordRequest{Keyword: keyword}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
