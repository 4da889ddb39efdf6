// Package router wires the handlers onto a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aanand-mishra/students-advice-api/internal/advisor"
	"github.com/aanand-mishra/students-advice-api/internal/http/handlers/student"
	"github.com/aanand-mishra/students-advice-api/internal/http/middleware"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
)

// Setup builds the engine.
//
//	GET    /students              list all students
//	POST   /students              create a student
//	GET    /students/{id}         get one student
//	PUT    /students/{id}         merge fields into a student
//	DELETE /students/{id}         delete a student
//	POST   /students/{id}/advice  generate and store advice
//	GET    /students/{id}/advice  read stored advice
//	GET    /healthz               liveness
func Setup(s storage.Storage, adv advisor.Advisor, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	students := engine.Group("/students")
	{
		students.GET("", student.GetList(s, log))
		students.POST("", student.New(s, log))
		students.GET("/:id", student.GetByID(s, log))
		students.PUT("/:id", student.Update(s, log))
		students.DELETE("/:id", student.Delete(s, log))
		students.POST("/:id/advice", student.GenerateAdvice(s, adv, log))
		students.GET("/:id/advice", student.GetAdvice(s, log))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return engine
}
