package recipe

import (
	"context"
	"fmt"
	"net/http"

	recipeService "recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/models"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Ingester 生成並儲存食譜
type Ingester interface {
	Ingest(ctx context.Context, req recipeService.RecipeRequest) (*models.Recipe, error)
}

// Catalog 已儲存食譜的查詢與維護
type Catalog interface {
	List(ctx context.Context) ([]models.Recipe, error)
	Get(ctx context.Context, id string) (*models.Recipe, error)
	Update(ctx context.Context, id string, patch recipeService.RecipePatch) (*models.Recipe, error)
	Delete(ctx context.Context, id string) error
	Save(ctx context.Context, id string) (*models.Recipe, error)
	Rate(ctx context.Context, id string) (*models.Recipe, error)
}

// Handler 食譜處理程序
type Handler struct {
	ingester  Ingester
	ingestErr error
	catalog   Catalog
	debug     bool
}

// NewHandler 創建新的食譜處理程序。
// ingester 為 nil 時，建立食譜的請求一律回傳 ingestErr（通常是未設定模型憑證）。
func NewHandler(ingester Ingester, ingestErr error, catalog Catalog, debug bool) *Handler {
	return &Handler{
		ingester:  ingester,
		ingestErr: ingestErr,
		catalog:   catalog,
		debug:     debug,
	}
}

// Create 依食材與偏好生成食譜並儲存
func (h *Handler) Create(c *gin.Context) {
	requestID := common.RequestIDFromContext(c.Request.Context())

	if h.ingester == nil {
		err := h.ingestErr
		if err == nil {
			err = common.ErrConfiguration
		}
		respondError(c, err, h.debug)
		return
	}

	var req recipeService.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		respondError(c, common.NewValidationError("body", "invalid request format"), h.debug)
		return
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.Int("ingredients", len(req.Ingredients)),
		zap.String("difficulty", req.Difficulty),
	)

	recipe, err := h.ingester.Ingest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

// List 列出所有食譜
func (h *Handler) List(c *gin.Context) {
	recipes, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Here are the recipes",
		"recipes": recipes,
	})
}

// Get 取得單一食譜
func (h *Handler) Get(c *gin.Context) {
	recipe, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Here is the recipe",
		"recipe":  recipe,
	})
}

// Update 部分更新食譜
func (h *Handler) Update(c *gin.Context) {
	var patch recipeService.RecipePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, common.NewValidationError("body", "invalid request format"), h.debug)
		return
	}

	recipe, err := h.catalog.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"recipe":  recipe,
	})
}

// Delete 刪除食譜
func (h *Handler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// Save 收藏食譜
func (h *Handler) Save(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.catalog.Save(c.Request.Context(), id); err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Save recipe ID: %s", id)})
}

// Rate 評分食譜
func (h *Handler) Rate(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.catalog.Rate(c.Request.Context(), id); err != nil {
		respondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Rate recipe ID: %s", id)})
}
