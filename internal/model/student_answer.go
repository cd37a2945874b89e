package model

// StudentAnswer 学生针对某题的选择，(attempt, question) 唯一，
// 重复提交同一题会被整体拒绝而不是追加第二行。
// swagger:model StudentAnswer
type StudentAnswer struct {
	BaseModel
	AttemptID  uint `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_attempt_question" json:"attemptId"`
	QuestionID uint `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_attempt_question" json:"questionId"`
	OptionID   uint `gorm:"index;type:bigint unsigned;not null" json:"optionId"`

	Question       *QuizQuestion   `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	SelectedOption *QuestionOption `gorm:"foreignKey:OptionID" json:"selectedOption,omitempty"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
