package brewing

import (
	"net/http"

	"brew-recipe-generator/internal/api/middleware"
	brewingService "brew-recipe-generator/internal/core/brewing"
	"brew-recipe-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateRequest 觸發食譜生成的請求體
type GenerateRequest struct {
	GenerationRequestID string `json:"generation_request_id" binding:"required"` // 既有沖煮請求的 ID
}

// CreateRequestBody 建立沖煮請求的請求體
type CreateRequestBody struct {
	BrewMethodID         string  `json:"brew_method_id" binding:"required"`          // 沖煮方式 ID
	CoffeeAmount         float64 `json:"coffee_amount" binding:"required,gt=0"`      // 咖啡粉量（克）
	CanAdjustTemperature *bool   `json:"can_adjust_temperature" binding:"required"`  // 設備是否可調水溫
	UserComment          string  `json:"user_comment,omitempty"`                     // 使用者備註
}

// Handler 沖煮請求處理程序
type Handler struct {
	service *brewingService.Service
}

// NewHandler 創建新的沖煮請求處理程序
func NewHandler(service *brewingService.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleGenerate 為既有沖煮請求生成 3 份草稿食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := ensureRequestID(c)
	userID := c.GetString(middleware.UserIDKey)

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:  common.ErrCodeInvalidRequest,
			Error: "generation_request_id is required",
		})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), userID, req.GenerationRequestID)
	if err != nil {
		writeError(c, requestID, "食譜生成失敗", err)
		return
	}

	common.LogInfo("食譜生成成功",
		zap.String("request_id", requestID),
		zap.String("generation_request_id", result.Request.ID),
	)

	c.JSON(http.StatusOK, result)
}

// HandleCreateRequest 建立新的沖煮請求
func (h *Handler) HandleCreateRequest(c *gin.Context) {
	requestID := ensureRequestID(c)
	userID := c.GetString(middleware.UserIDKey)

	var req CreateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:  common.ErrCodeInvalidRequest,
			Error: "brew_method_id, coffee_amount and can_adjust_temperature are required",
		})
		return
	}

	row, err := h.service.CreateRequest(c.Request.Context(), userID,
		req.BrewMethodID, req.CoffeeAmount, *req.CanAdjustTemperature, req.UserComment)
	if err != nil {
		writeError(c, requestID, "沖煮請求建立失敗", err)
		return
	}

	common.LogInfo("沖煮請求已建立",
		zap.String("request_id", requestID),
		zap.String("generation_request_id", row.ID),
	)

	c.JSON(http.StatusCreated, gin.H{"generation_request": row})
}

// HandleListRequests 列出呼叫者自己的沖煮請求
func (h *Handler) HandleListRequests(c *gin.Context) {
	requestID := ensureRequestID(c)
	userID := c.GetString(middleware.UserIDKey)

	rows, err := h.service.ListRequests(c.Request.Context(), userID)
	if err != nil {
		writeError(c, requestID, "沖煮請求查詢失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"generation_requests": rows})
}

// HandleListMethods 列出所有沖煮方式
func (h *Handler) HandleListMethods(c *gin.Context) {
	requestID := ensureRequestID(c)

	rows, err := h.service.ListMethods(c.Request.Context())
	if err != nil {
		writeError(c, requestID, "沖煮方式查詢失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"brew_methods": rows})
}

// ensureRequestID 取得或補發請求 ID
func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// writeError 將封閉分類錯誤轉換為 HTTP 回應
// 5xx 回應附上診斷細節；2xx 路徑絕不攜帶供應商內部訊息
func writeError(c *gin.Context, requestID, logMsg string, err error) {
	ce := common.AsCustomError(err)

	common.LogError(logMsg,
		zap.Error(err),
		zap.String("request_id", requestID),
		zap.String("code", ce.Code),
		zap.Int("status", ce.Status),
	)

	resp := common.ErrorResponse{
		Code:  ce.Code,
		Error: ce.Message,
	}
	if ce.Status >= http.StatusInternalServerError && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}

	c.JSON(ce.Status, resp)
}
