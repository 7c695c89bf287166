package ws

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"go-splendor/engine"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// 将 HTTP 请求升级为 WebSocket 连接
func upgradeConnection(c *gin.Context) (*websocket.Conn, error) {
	return upgrader.Upgrade(c.Writer, c.Request, nil)
}

// 自定义 HookFunc，把字符串转换成整数
func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from != reflect.String {
			return data, nil
		}
		switch to {
		case reflect.Int:
			return strconv.Atoi(data.(string))
		case reflect.Uint64:
			return strconv.ParseUint(data.(string), 10, 64)
		}
		return data, nil
	}
}

// decodePayload 把消息中的 payload 解码到 out
func decodePayload(msgMap map[string]interface{}, out interface{}) error {
	payload, ok := msgMap["payload"]
	if !ok || payload == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToIntHookFunc(),
		Result:     out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(payload); err != nil {
		return malformed("payload 格式错误: %v", err)
	}
	return nil
}

func malformed(format string, args ...any) *engine.Rejection {
	return &engine.Rejection{
		Category: engine.InvalidActionShape,
		Code:     engine.CodeMalformedAction,
		Detail:   fmt.Sprintf(format, args...),
	}
}
