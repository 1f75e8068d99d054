package supabase

import (
	"context"
	"fmt"
	"net/http"

	"brew-recipe-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// VerifyToken 將使用者令牌交給身份驗證端點驗證，回傳呼叫者的使用者 ID
// 令牌驗證完全委派給平台，任何失敗一律視為未授權（預設拒絕）
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	resp, err := c.auth.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", token)).
		Get("/user")
	if err != nil {
		return "", common.ErrUnauthorized.WithDetail(fmt.Errorf("token verification failed: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("令牌驗證遭拒",
			zap.Int("status_code", resp.StatusCode()),
		)
		return "", common.ErrUnauthorized
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &user); err != nil {
		return "", common.ErrUnauthorized.WithDetail(fmt.Errorf("failed to parse identity response: %w", err))
	}
	if user.ID == "" {
		return "", common.ErrUnauthorized
	}

	return user.ID, nil
}
