package model

// swagger:model Course
type Course struct {
	BaseModel
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	CategoryID  *uint   `gorm:"index;type:bigint unsigned" json:"categoryId,omitempty"`
	CoverURL    string  `gorm:"size:255" json:"coverUrl"`
	Price       float64 `gorm:"default:0" json:"price"`
	IsPublished bool    `gorm:"default:false" json:"isPublished"`

	Category *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Modules  []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseProfessor 课程与教师的关联关系
type CourseProfessor struct {
	BaseModel
	CourseID uint `gorm:"index;type:bigint unsigned;uniqueIndex:idx_course_professor" json:"courseId"`
	UserID   uint `gorm:"index;type:bigint unsigned;uniqueIndex:idx_course_professor" json:"userId"`
}

func (CourseProfessor) TableName() string {
	return "course_professors"
}
