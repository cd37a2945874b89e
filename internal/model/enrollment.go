package model

// Enrollment 学生选课记录，(user, course) 唯一
type Enrollment struct {
	BaseModel
	UserID   uint `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID uint `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_user_course" json:"courseId"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
