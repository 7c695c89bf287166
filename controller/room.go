package controller

import (
	"errors"
	"net/http"
	"strconv"

	"go-splendor/dto"
	"go-splendor/repository"
	"go-splendor/service"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	svc *service.RoomService
}

func NewRoomController(svc *service.RoomService) *RoomController {
	return &RoomController{svc: svc}
}

// errorStatus 业务错误对应的 HTTP 状态码
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRoom):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrResultsDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := errorStatus(err)
	c.JSON(status, gin.H{"status_code": status, "error": err.Error()})
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "error": "缺少必要字段"})
		return
	}

	roomID, err := rc.svc.CreateRoom(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "房间创建成功",
		"data":        dto.CreateRoomResponse{RoomID: roomID},
	})
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	var req dto.DeleteRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "error": "缺少必要字段"})
		return
	}
	if err := rc.svc.DeleteRoom(c.Request.Context(), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "房间删除成功",
	})
}

func (rc *RoomController) GetRoomList(c *gin.Context) {
	rooms, err := rc.svc.GetRoomList(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":         "获取成功",
		"status_code": http.StatusOK,
		"data":        dto.GetRoomList{Rooms: rooms},
	})
}

func (rc *RoomController) GetRoomInfo(c *gin.Context) {
	room, err := rc.svc.GetRoomInfo(c.Request.Context(), c.Param("roomID"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":         "获取成功",
		"status_code": http.StatusOK,
		"data":        room,
	})
}

// GetResults 最近结束的对局，?limit= 默认 20
func (rc *RoomController) GetResults(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "error": "limit 不是数字"})
		return
	}
	results, err := rc.svc.GetResults(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":         "获取成功",
		"status_code": http.StatusOK,
		"data":        results,
	})
}
