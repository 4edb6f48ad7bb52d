package loop

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/engn/internal/service/scheduler"
)

func Register(rg *gin.RouterGroup, s *scheduler.Scheduler) {
	rg.GET("", status(s))
	rg.POST("/start", start(s))
	rg.POST("/stop", stop(s))
}

type statusResp struct {
	ID      string `json:"id"`
	Running bool   `json:"running"`
	Frames  uint64 `json:"frames"`
}

func snapshot(s *scheduler.Scheduler) statusResp {
	return statusResp{
		ID:      s.ID().String(),
		Running: s.Running(),
		Frames:  s.Frames(),
	}
}

func status(s *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, snapshot(s))
	}
}

func start(s *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Run()
		c.JSON(http.StatusOK, snapshot(s))
	}
}

func stop(s *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Stop()
		c.JSON(http.StatusOK, snapshot(s))
	}
}
