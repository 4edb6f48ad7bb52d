package assets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainasset "github.com/alanyang/engn/internal/domain/asset"
	assetsvc "github.com/alanyang/engn/internal/service/asset"
)

func Register(rg *gin.RouterGroup, lib *assetsvc.Library) {
	rg.GET("", listAssets(lib))
	rg.POST("/reload", reloadAssets(lib))
}

type listResp struct {
	Count int                           `json:"count"`
	Names map[domainasset.Kind][]string `json:"names"`
}

func listAssets(lib *assetsvc.Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		b := lib.Bundle()
		c.JSON(http.StatusOK, listResp{Count: b.Len(), Names: b.Names()})
	}
}

func reloadAssets(lib *assetsvc.Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := lib.Reload(c.Request.Context())
		if err != nil {
			var le *domainasset.LoadError
			if errors.As(err, &le) {
				c.JSON(http.StatusBadGateway, gin.H{
					"error": err.Error(),
					"kind":  le.Kind,
					"name":  le.Name,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, listResp{Count: b.Len(), Names: b.Names()})
	}
}
