package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID uint   `gorm:"index;type:bigint unsigned;not null" json:"moduleId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	Duration int    `gorm:"default:0" json:"duration"` // 分钟
	Order    int    `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
