package util

import "errors"

var (
	ErrUserNotFound            = errors.New("用户不存在")
	ErrEmailRegistered         = errors.New("该邮箱已被注册")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrNotEnrolled             = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled         = errors.New("already enrolled in this course")
	ErrQuizNotPublished        = errors.New("quiz not published or not accessible")
	ErrAttemptNotOwned         = errors.New("attempt does not belong to caller")
	ErrAttemptAlreadyCompleted = errors.New("attempt already completed")
	ErrAttemptNotCompleted     = errors.New("attempt not completed yet")
	ErrAttemptLimitReached     = errors.New("attempt limit reached")
	ErrInvalidAnswer           = errors.New("answer references an invalid question/option pair")
	ErrMinimumOptions          = errors.New("questions must keep at least 2 options")
)
