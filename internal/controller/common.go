package controller

import (
	"errors"

	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// handleServiceError 统一把业务错误映射到 HTTP 状态码
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrAttemptNotOwned),
		errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAttemptAlreadyCompleted),
		errors.Is(err, util.ErrAttemptNotCompleted),
		errors.Is(err, util.ErrAttemptLimitReached),
		errors.Is(err, util.ErrInvalidAnswer),
		errors.Is(err, util.ErrMinimumOptions),
		errors.Is(err, util.ErrQuizNotPublished),
		errors.Is(err, util.ErrAlreadyEnrolled):
		util.UnprocessableEntity(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
