package recipe

import (
	"errors"

	recipeService "recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// toCustomError 將服務層錯誤對應為 API 錯誤
func toCustomError(err error) *common.CustomError {
	var v *common.ValidationError
	if errors.As(err, &v) {
		return common.NewError(common.ErrCodeInvalidRequest, v.Error(), common.ErrInvalidRequest.Status, err)
	}
	if errors.Is(err, recipeService.ErrRecipeNotFound) {
		return common.ErrNotFound.WithErr(err)
	}

	switch recipeService.KindOf(err) {
	case recipeService.ConfigurationError:
		return common.ErrConfiguration.WithErr(err)
	case recipeService.UpstreamModelError:
		return common.ErrUpstreamModel.WithErr(err)
	case recipeService.MalformedResponseError:
		return common.ErrMalformedResponse.WithErr(err)
	case recipeService.AssemblyError:
		return common.ErrAssembly.WithErr(err)
	case recipeService.PersistenceError:
		return common.ErrPersistence.WithErr(err)
	}

	var ce *common.CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return common.ErrInternalError.WithErr(err)
}

// respondError 寫出錯誤響應，模型回應無法解析時附帶原始文字，缺欄位時附帶欄位名稱
func respondError(c *gin.Context, err error, debug bool) {
	ce := toCustomError(err)
	resp := ce.Response(debug)

	var v *common.ValidationError
	if errors.As(err, &v) {
		resp.Field = v.Field
	}
	var ie *recipeService.IngestionError
	if errors.As(err, &ie) {
		resp.Field = ie.Field
		resp.Raw = ie.Raw
	}

	if ce.Status >= 500 {
		common.LogError("請求處理失敗",
			zap.String("code", ce.Code),
			zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, resp)
}
