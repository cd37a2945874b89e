package model

// QuestionOption 题目选项。IsCorrect 只出现在教师侧响应里，
// 学生开始答题时通过 QuizView/QuestionView 输出，不带该字段。
// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	OptionText string `gorm:"type:text;not null" json:"optionText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
