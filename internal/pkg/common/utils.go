package common

import (
	"time"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// NowUTC 回傳去除單調時鐘的 UTC 時間，供寫入資料列使用
func NowUTC() time.Time {
	return time.Now().UTC().Round(0)
}
