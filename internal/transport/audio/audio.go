package audio

import (
	"net/http"

	"github.com/gin-gonic/gin"

	audiosvc "github.com/alanyang/engn/internal/service/audio"
)

func Register(rg *gin.RouterGroup, mixer *audiosvc.Mixer) {
	rg.POST("/resume", resume(mixer))
	rg.PUT("/volume", setVolume(mixer))
}

// resume is the caller-driven trigger for waking the audio context; browsers
// hit it from their first pointer or key event.
func resume(mixer *audiosvc.Mixer) gin.HandlerFunc {
	return func(c *gin.Context) {
		resumed, err := mixer.Resume(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"resumed": resumed, "state": mixer.State()})
	}
}

type volumeReq struct {
	Volume *float64 `json:"volume" binding:"required"`
}

func setVolume(mixer *audiosvc.Mixer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req volumeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"volume": mixer.SetVolume(*req.Volume)})
	}
}
