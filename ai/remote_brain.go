package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-splendor/engine"
)

// RemoteBrain 调用外部 AI 服务决策，服务不可用或返回非法动作时交给 fallback
type RemoteBrain struct {
	url      string
	client   *http.Client
	fallback Brain
}

func NewRemoteBrain(url string, timeout time.Duration, fallback Brain) *RemoteBrain {
	if fallback == nil {
		fallback = NewRuleBrain()
	}
	return &RemoteBrain{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		fallback: fallback,
	}
}

func (b *RemoteBrain) Name() string { return "remote" }

type remoteRequest struct {
	PlayerID     string            `json:"playerID"`
	GameState    *engine.GameState `json:"gameState"`
	LegalActions []engine.Action   `json:"legalActions"`
}

type remoteResponse struct {
	Result *engine.Action `json:"result"`
}

func (b *RemoteBrain) Decide(s *engine.GameState, playerID string) (engine.Action, error) {
	if s == nil || s.ActorID() != playerID {
		return engine.Action{}, ErrNotActor
	}
	a, err := b.ask(context.Background(), s, playerID)
	if err != nil {
		return b.fallback.Decide(s, playerID)
	}
	return a, nil
}

func (b *RemoteBrain) ask(ctx context.Context, s *engine.GameState, playerID string) (engine.Action, error) {
	body, err := json.Marshal(remoteRequest{
		PlayerID:     playerID,
		GameState:    s,
		LegalActions: engine.LegalActions(s),
	})
	if err != nil {
		return engine.Action{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return engine.Action{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return engine.Action{}, fmt.Errorf("调用 AI 服务失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return engine.Action{}, fmt.Errorf("AI 服务返回 %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return engine.Action{}, err
	}
	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return engine.Action{}, fmt.Errorf("AI 返回数据解析失败: %w", err)
	}
	if out.Result == nil {
		return engine.Action{}, fmt.Errorf("AI 没有返回 result 字段")
	}

	a := *out.Result
	a.PlayerID = playerID
	if err := engine.Validate(s, a); err != nil {
		return engine.Action{}, err
	}
	return a, nil
}
