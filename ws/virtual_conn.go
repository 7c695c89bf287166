package ws

import (
	"fmt"
)

// 持续监听客户端消息的连接只需要写
type WriteOnlyConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// 读写接口，供真实客户端连接用，支持读取消息
type ReadWriteConn interface {
	WriteOnlyConn
	ReadMessage() (messageType int, p []byte, err error)
}

var _ WriteOnlyConn = (*VirtualConn)(nil) // 编译期断言实现

// VirtualConn AI 座位的连接，收到同步消息后交给 hub 决定是否行动
type VirtualConn struct {
	PlayerID string
	RoomID   string
	hub      *Hub
}

func (v *VirtualConn) WriteMessage(messageType int, data []byte) error {
	if v.hub != nil {
		v.hub.MaybeRunAIIfNeeded(v.RoomID, v.PlayerID, data)
	}
	return nil
}

func (v *VirtualConn) ReadMessage() (messageType int, p []byte, err error) {
	return 0, nil, fmt.Errorf("virtual connection cannot read")
}

func (v *VirtualConn) Close() error {
	return nil
}
