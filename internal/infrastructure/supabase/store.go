package supabase

import (
	"context"
	"fmt"

	"brew-recipe-generator/internal/core/brewing"
	"brew-recipe-generator/internal/pkg/common"
)

// Store 以 Supabase 資料列實作 brewing.Store
type Store struct {
	client *Client
}

// NewStore 創建資料列閘道
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// GetBrewingRequest 以 ID 取得沖煮請求，查無資料列時回傳 (nil, nil)
func (s *Store) GetBrewingRequest(ctx context.Context, id string) (*brewing.BrewingRequest, error) {
	rows, err := s.client.SelectRows(ctx, brewing.TableGenerationRequests, map[string]string{
		"id":    "eq." + id,
		"limit": "1",
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var row brewing.BrewingRequest
	if err := common.ParseJSONBytes(rows[0], &row); err != nil {
		return nil, fmt.Errorf("failed to decode generation request row: %w", err)
	}
	return &row, nil
}

// GetBrewMethod 以 ID 取得沖煮方式，查無資料列時回傳 (nil, nil)
func (s *Store) GetBrewMethod(ctx context.Context, id string) (*brewing.BrewMethod, error) {
	rows, err := s.client.SelectRows(ctx, brewing.TableBrewMethods, map[string]string{
		"id":    "eq." + id,
		"limit": "1",
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var row brewing.BrewMethod
	if err := common.ParseJSONBytes(rows[0], &row); err != nil {
		return nil, fmt.Errorf("failed to decode brew method row: %w", err)
	}
	return &row, nil
}

// InsertBrewingRequest 寫入單筆沖煮請求並回傳寫入後的資料列
func (s *Store) InsertBrewingRequest(ctx context.Context, row brewing.BrewingRequest) (*brewing.BrewingRequest, error) {
	rows, err := s.client.InsertRows(ctx, brewing.TableGenerationRequests, []brewing.BrewingRequest{row})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var saved brewing.BrewingRequest
	if err := common.ParseJSONBytes(rows[0], &saved); err != nil {
		return nil, fmt.Errorf("failed to decode inserted generation request: %w", err)
	}
	return &saved, nil
}

// InsertRecipes 批次寫入食譜資料列並回傳寫入後的資料列
func (s *Store) InsertRecipes(ctx context.Context, rows []brewing.PersistedRecipe) ([]brewing.PersistedRecipe, error) {
	raw, err := s.client.InsertRows(ctx, brewing.TableRecipes, rows)
	if err != nil {
		return nil, err
	}

	out := make([]brewing.PersistedRecipe, 0, len(raw))
	for _, r := range raw {
		var recipe brewing.PersistedRecipe
		if err := common.ParseJSONBytes(r, &recipe); err != nil {
			return nil, fmt.Errorf("failed to decode inserted recipe row: %w", err)
		}
		out = append(out, recipe)
	}
	return out, nil
}

// ListBrewingRequests 列出指定擁有者的沖煮請求，新的在前
func (s *Store) ListBrewingRequests(ctx context.Context, ownerID string) ([]brewing.BrewingRequest, error) {
	rows, err := s.client.SelectRows(ctx, brewing.TableGenerationRequests, map[string]string{
		"owner_id": "eq." + ownerID,
		"order":    "created_at.desc",
	})
	if err != nil {
		return nil, err
	}

	out := make([]brewing.BrewingRequest, 0, len(rows))
	for _, r := range rows {
		var row brewing.BrewingRequest
		if err := common.ParseJSONBytes(r, &row); err != nil {
			return nil, fmt.Errorf("failed to decode generation request row: %w", err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ListBrewMethods 列出所有沖煮方式
func (s *Store) ListBrewMethods(ctx context.Context) ([]brewing.BrewMethod, error) {
	rows, err := s.client.SelectRows(ctx, brewing.TableBrewMethods, map[string]string{
		"order": "name.asc",
	})
	if err != nil {
		return nil, err
	}

	out := make([]brewing.BrewMethod, 0, len(rows))
	for _, r := range rows {
		var row brewing.BrewMethod
		if err := common.ParseJSONBytes(r, &row); err != nil {
			return nil, fmt.Errorf("failed to decode brew method row: %w", err)
		}
		out = append(out, row)
	}
	return out, nil
}
