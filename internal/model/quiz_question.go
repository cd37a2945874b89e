package model

type QuestionType string

const (
	SingleSelect QuestionType = "single"
	MultiSelect  QuestionType = "multiple"
)

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID       uint         `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType `gorm:"size:20;default:'single'" json:"questionType"`
	Points       float64      `gorm:"default:1" json:"points"`

	Options []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
