package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// QuizAttempt 一次测验作答。status 只会从 in_progress 变为 completed，
// score / is_passed 在完成时一次性写入，之后不再变化。
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID    uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	QuizID    uint          `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	StartTime time.Time     `json:"startTime"`
	EndTime   *time.Time    `json:"endTime,omitempty"`
	Status    AttemptStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	Score     *float64      `json:"score,omitempty"`
	IsPassed  *bool         `json:"isPassed,omitempty"`

	Quiz    *Quiz           `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Answers []StudentAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Completed 判断作答是否已完成
func (a *QuizAttempt) Completed() bool {
	return a.Status == AttemptCompleted
}
