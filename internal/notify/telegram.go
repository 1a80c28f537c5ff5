package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier delivers messages through the Bot API sendMessage
// endpoint.
type TelegramNotifier struct {
	token  string
	client *http.Client
	logger *zap.Logger
}

func NewTelegramNotifier(token string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *TelegramNotifier) Send(ctx context.Context, userID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: userID, Text: text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPIBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var parsed sendMessageResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("telegram send: status %d, unreadable body", resp.StatusCode)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram send: %s", parsed.Description)
	}

	n.logger.Debug("message delivered", zap.Int64("user_id", userID))
	return nil
}

// LogNotifier is a delivery stub for environments without a bot token.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, userID int64, text string) error {
	n.logger.Info("notification (dry run)", zap.Int64("user_id", userID), zap.String("text", text))
	return nil
}
