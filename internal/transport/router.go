package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	assetsvc "github.com/alanyang/engn/internal/service/asset"
	audiosvc "github.com/alanyang/engn/internal/service/audio"
	"github.com/alanyang/engn/internal/service/scheduler"

	assethandler "github.com/alanyang/engn/internal/transport/assets"
	audiohandler "github.com/alanyang/engn/internal/transport/audio"
	loophandler "github.com/alanyang/engn/internal/transport/loop"
	wshandler "github.com/alanyang/engn/internal/transport/ws"
)

func NewRouter(
	sched *scheduler.Scheduler,
	lib *assetsvc.Library,
	mixer *audiosvc.Mixer,
	hub *wshandler.Hub,
	mcp http.Handler,
	metrics http.Handler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	loophandler.Register(api.Group("/loop"), sched)
	assethandler.Register(api.Group("/assets"), lib)
	audiohandler.Register(api.Group("/audio"), mixer)
	hub.Register(api.Group("/ws"))

	r.Any("/mcp", gin.WrapH(mcp))
	r.GET("/metrics", gin.WrapH(metrics))

	return r
}
