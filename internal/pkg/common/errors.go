package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Error   string `json:"error"`             // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
// 所有外部呼叫（資料庫、身份驗證、模型）的失敗都必須先轉換成這個封閉分類
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is / errors.As 可以找到原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WithDetail 以同樣的代碼與狀態碼包裝底層錯誤
func (e *CustomError) WithDetail(err error) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError；取不到時歸入未處理錯誤 (500)
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrInternalError.WithDetail(err)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"      // 401
	ErrCodeForbidden       = "FORBIDDEN"         // 403
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 模型輸出錯誤 (422)
	ErrCodeModelOutputInvalid = "MODEL_OUTPUT_INVALID" // 422

	// 服務器錯誤 (5xx)
	ErrCodeConfigMissing      = "CONFIG_MISSING"      // 500
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodePersistenceFailure = "PERSISTENCE_FAILURE" // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "未授權的訪問", http.StatusUnauthorized, nil)
	ErrForbidden       = NewError(ErrCodeForbidden, "禁止訪問", http.StatusForbidden, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrConfigMissing      = NewError(ErrCodeConfigMissing, "伺服器設定缺失", http.StatusInternalServerError, nil)
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrRequestNotFound    = NewError(ErrCodeNotFound, "generation request not found", http.StatusNotFound, nil)
	ErrBrewMethodNotFound = NewError(ErrCodeNotFound, "brew method not found", http.StatusNotFound, nil)
	ErrNotRequestOwner    = NewError(ErrCodeForbidden, "caller does not own this generation request", http.StatusForbidden, nil)
	ErrModelOutputInvalid = NewError(ErrCodeModelOutputInvalid, "model output could not be validated", http.StatusUnprocessableEntity, nil)
	ErrPersistenceFailure = NewError(ErrCodePersistenceFailure, "failed to persist generated recipes", http.StatusInternalServerError, nil)
)
