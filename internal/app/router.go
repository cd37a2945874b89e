package app

import (
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerProfessorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录允许游客浏览
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.CourseDetail)
		public.GET("/categories", c.category.ListCategories)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.GET("/my-courses", c.course.MyCourses)

	// 作答
	rg.POST("/quizzes/:id/attempt", c.attempt.StartAttempt)
	rg.POST("/attempts/:id/submit", c.attempt.SubmitAttempt)
	rg.GET("/attempts", c.attempt.AttemptHistory)
	rg.GET("/attempts/:id", c.attempt.AttemptDetails)
}

func (a *App) registerProfessorRoutes(rg *gin.RouterGroup, c *controllers) {
	professor := rg.Group("/professor")
	professor.Use(middleware.RoleMiddleware(model.Professor))
	{
		professor.GET("/courses", c.professorCourse.MyTaughtCourses)
		professor.POST("/courses", c.professorCourse.CreateCourse)
		professor.PUT("/courses/:id", c.professorCourse.UpdateCourse)
		professor.DELETE("/courses/:id", c.professorCourse.DeleteCourse)
		professor.GET("/courses/:id/enrollments", c.professorCourse.CourseEnrollments)

		professor.POST("/courses/:id/modules", c.professorCourse.AddModule)
		professor.PUT("/modules/:id", c.professorCourse.UpdateModule)
		professor.DELETE("/modules/:id", c.professorCourse.DeleteModule)

		professor.POST("/modules/:id/lessons", c.professorCourse.AddLesson)
		professor.PUT("/lessons/:id", c.professorCourse.UpdateLesson)
		professor.DELETE("/lessons/:id", c.professorCourse.DeleteLesson)

		professor.POST("/modules/:id/quizzes", c.professorQuiz.CreateQuiz)
		professor.GET("/modules/:id/quizzes", c.professorQuiz.ModuleQuizzes)
		professor.GET("/quizzes/:id", c.professorQuiz.QuizDetail)
		professor.PUT("/quizzes/:id", c.professorQuiz.UpdateQuiz)
		professor.DELETE("/quizzes/:id", c.professorQuiz.DeleteQuiz)

		professor.POST("/quizzes/:id/questions", c.professorQuiz.AddQuestion)
		professor.PUT("/questions/:id", c.professorQuiz.UpdateQuestion)
		professor.DELETE("/questions/:id", c.professorQuiz.DeleteQuestion)

		professor.POST("/questions/:id/options", c.professorQuiz.AddOption)
		professor.PUT("/options/:id", c.professorQuiz.UpdateOption)
		professor.DELETE("/options/:id", c.professorQuiz.DeleteOption)

		professor.GET("/quizzes/:id/attempts", c.professorQuiz.QuizAttempts)
		professor.GET("/attempts/:id", c.professorQuiz.ReviewAttempt)
		professor.GET("/quizzes/:id/statistics", c.professorQuiz.QuizStatistics)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/categories", c.category.CreateCategory)
		admin.PUT("/categories/:id", c.category.UpdateCategory)
		admin.DELETE("/categories/:id", c.category.DeleteCategory)
	}
}
