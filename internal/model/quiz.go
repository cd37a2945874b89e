package model

import "time"

// swagger:model Quiz
type Quiz struct {
	BaseModel
	ModuleID     uint       `gorm:"index;type:bigint unsigned;not null" json:"moduleId"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	TimeLimit    *int       `json:"timeLimit,omitempty"` // 分钟，当前不做提交时校验
	PassingScore float64    `gorm:"not null;default:0" json:"passingScore"`
	IsPublished  bool       `gorm:"default:false" json:"isPublished"`
	MaxAttempts  *int       `json:"maxAttempts,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
