package handler

import (
	"errors"
	"net/http"

	"parkhya_chat_server/internal/dto/respond"
	"parkhya_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// envelope 统一响应结构
//
//	{ message, data?, error, status, pagination?, details? }
func envelope(status int, message string, data any) gin.H {
	body := gin.H{
		"message": message,
		"error":   status >= http.StatusBadRequest,
		"status":  status,
	}
	if data != nil {
		body["data"] = data
	}
	return body
}

// HandleSuccess 返回 200
func HandleSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope(http.StatusOK, message, data))
}

// HandleCreated 返回 201
func HandleCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, envelope(http.StatusCreated, message, data))
}

// HandleSuccessWithPagination 列表接口附带分页信息
func HandleSuccessWithPagination(c *gin.Context, message string, data any, page *respond.Pagination) {
	body := envelope(http.StatusOK, message, data)
	body["pagination"] = page
	c.JSON(http.StatusOK, body)
}

// HandleError 通用错误处理方法
// errorx.CodeError 按错误码映射 HTTP 状态；内部错误只返回通用提示，细节写日志
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) && !errorx.IsInternal(codeErr.Code) {
		status := errorx.HTTPStatus(codeErr.Code)
		c.AbortWithStatusJSON(status, envelope(status, codeErr.Msg, nil))
		return
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		envelope(http.StatusInternalServerError, errorx.ErrServerBusy.Msg, nil))
}

// HandleParamError 处理参数绑定错误
// validator 的错误翻译后放在 details 中，其余错误（如 JSON 格式错误）原文放在 details
func HandleParamError(c *gin.Context, err error) {
	body := envelope(http.StatusBadRequest, errorx.ErrInvalidParam.Msg, nil)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		body["details"] = RemoveTopStruct(validationErrs.Translate(Trans))
	} else {
		zap.L().Debug("param bind error", zap.Error(err))
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}
