package router

import (
	"go-splendor/controller"
	"go-splendor/ws"

	"github.com/gin-gonic/gin"
)

func InitRouter(r *gin.Engine, rc *controller.RoomController, hub *ws.Hub) {
	// 房间接口路由
	api := r.Group("/room")
	{
		api.POST("/create", rc.CreateRoom)
		api.GET("/list", rc.GetRoomList)
		api.GET("/:roomID", rc.GetRoomInfo)
		api.POST("/delete", rc.DeleteRoom)
	}
	r.GET("/results", rc.GetResults)

	// WebSocket 路由
	r.GET("/ws", hub.HandleWebSocket)
}
