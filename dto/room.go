package dto

import "go-splendor/entities"

type RoomInfo struct {
	entities.RoomInfo
	RoomPlayer []RoomPlayer `json:"roomPlayer"`
	// 仅房间详情返回，旁观视角
	Game *PublicGame `json:"game,omitempty"`
}

type CreateRoomRequest struct {
	MaxPlayers int    `json:"maxPlayers" binding:"required"`
	UserID     string `json:"userID" binding:"required"`
	AIPlayers  int    `json:"aiPlayers"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type DeleteRoomRequest struct {
	RoomID string `json:"roomID" binding:"required"`
}

type GetRoomList struct {
	Rooms []RoomInfo `json:"rooms"`
}
