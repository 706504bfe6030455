package ledger

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, reader Reader, anchorer Anchorer) {
	group := router.Group("/ledger")
	{
		group.GET("", ListHandler(reader))
		group.GET("/verify", VerifyHandler(reader))
		group.GET("/:sequence/anchor", AnchorHandler(reader, anchorer))
	}
}
