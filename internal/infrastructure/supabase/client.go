package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"brew-recipe-generator/internal/infrastructure/config"
	"brew-recipe-generator/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client Supabase HTTP 客戶端
// rest 走管理層級密鑰讀寫資料列；auth 只用受限密鑰驗證使用者令牌
type Client struct {
	config *config.Config
	rest   *resty.Client
	auth   *resty.Client
}

// NewClient 創建 Supabase 客戶端
func NewClient(cfg *config.Config) *Client {
	base := strings.TrimRight(cfg.Supabase.URL, "/")

	rest := resty.New().
		SetBaseURL(base + "/rest/v1").
		SetHeader("apikey", cfg.Supabase.ServiceKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Supabase.ServiceKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Supabase.Timeout)

	auth := resty.New().
		SetBaseURL(base + "/auth/v1").
		SetHeader("apikey", cfg.Supabase.AnonKey).
		SetTimeout(cfg.Supabase.Timeout)

	return &Client{
		config: cfg,
		rest:   rest,
		auth:   auth,
	}
}

// SelectRows 以過濾條件查詢資料列
// filters 直接對應 PostgREST 查詢參數，例如 {"id": "eq.xxx", "limit": "1"}
func (c *Client) SelectRows(ctx context.Context, table string, filters map[string]string) ([]json.RawMessage, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetQueryParam("select", "*")
	for k, v := range filters {
		req.SetQueryParam(k, v)
	}

	resp, err := req.Get("/" + table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogError("資料列查詢失敗",
			zap.String("table", table),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("store returned status %d for %s", resp.StatusCode(), table)
	}

	var rows []json.RawMessage
	if err := common.ParseJSONBytes(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse rows from %s: %w", table, err)
	}
	return rows, nil
}

// InsertRows 批次寫入資料列並回傳寫入後的結果列
// 透過 Prefer: return=representation 取得實際寫入的內容
func (c *Client) InsertRows(ctx context.Context, table string, payload interface{}) ([]json.RawMessage, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(payload).
		Post("/" + table)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		common.LogError("資料列寫入失敗",
			zap.String("table", table),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("store returned status %d for insert into %s", resp.StatusCode(), table)
	}

	var rows []json.RawMessage
	if err := common.ParseJSONBytes(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse inserted rows from %s: %w", table, err)
	}
	return rows, nil
}
