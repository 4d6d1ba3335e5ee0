package nlquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/contracts"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// Промпт просит модель вернуть только JSON с полями критериев;
// неизвестные условия — null.
const promptTemplate = `請將以下租屋需求轉換為結構化的搜尋條件。請以JSON格式回應，包含以下欄位：
- district: 區域名稱（如：大安區、信義區等）
- minPrice: 最低價格
- maxPrice: 最高價格
- minArea: 最低坪數
- maxArea: 最高坪數
- roomType: 房型（套房、1房、2房等）
- nearMRT: 捷運站名稱
- hasParking: 是否需要停車位 (boolean)
- hasPet: 是否可養寵物 (boolean)
- hasCooking: 是否可開伙 (boolean)
- hasElevator: 是否需要電梯 (boolean)
- hasBalcony: 是否需要陽台 (boolean)

用戶查詢: "%s"

請只回應JSON，不要其他說明文字。如果無法判斷某個條件，請設為null。`

// ClaudeTranslatorAdapter переводит свободный текст в критерии через
// messages-эндпоинт языкового шлюза.
type ClaudeTranslatorAdapter struct {
	gatewayURL string
	token      string
	model      string
	client     *http.Client
}

func NewClaudeTranslatorAdapter(gatewayURL, token, model string) (*ClaudeTranslatorAdapter, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("nlquery adapter: gateway URL is required")
	}
	return &ClaudeTranslatorAdapter{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		token:      token,
		model:      model,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (a *ClaudeTranslatorAdapter) Translate(ctx context.Context, query string) (*domain.SearchCriteria, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	translateLogger := logger.WithFields(port.Fields{"component": "ClaudeTranslatorAdapter"})

	payload, err := json.Marshal(messagesRequest{
		Model:     a.model,
		MaxTokens: 1000,
		Messages: []message{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, query)},
		},
	})
	if err != nil {
		return nil, &domain.TranslationError{Reason: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.gatewayURL+"/api/proxy/claude/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.TranslationError{Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &domain.TranslationError{Reason: "language gateway unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TranslationError{Reason: "failed to read gateway response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.TranslationError{
			Reason: fmt.Sprintf("language gateway returned status %d", resp.StatusCode),
		}
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.TranslationError{Reason: "gateway response is not valid JSON", Err: err}
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return nil, &domain.TranslationError{Reason: "gateway response has no content"}
	}

	criteria, err := parseCriteria(parsed.Content[0].Text)
	if err != nil {
		translateLogger.Error("Model response could not be parsed into criteria", err, port.Fields{
			"query": query,
		})
		return nil, err
	}

	translateLogger.Debug("Query translated", port.Fields{"query": query})
	return criteria, nil
}

// parseCriteria разбирает текст ответа модели: сначала целиком как JSON,
// затем — первый сбалансированный {...} блок. Откат к пустому фильтру
// запрещён: непригодный ответ — это *domain.TranslationError.
func parseCriteria(text string) (*domain.SearchCriteria, error) {
	raw := []byte(strings.TrimSpace(text))

	if !json.Valid(raw) {
		block, ok := extractJSONObject(string(raw))
		if !ok {
			return nil, &domain.TranslationError{Reason: "no JSON object in model response"}
		}
		raw = []byte(block)
	}

	if err := contracts.ValidateCriteria(raw); err != nil {
		return nil, &domain.TranslationError{Reason: "model response failed schema validation", Err: err}
	}

	var criteria domain.SearchCriteria
	if err := json.Unmarshal(raw, &criteria); err != nil {
		return nil, &domain.TranslationError{Reason: "model response does not match criteria shape", Err: err}
	}
	return &criteria, nil
}

// extractJSONObject находит первый сбалансированный блок фигурных скобок,
// игнорируя скобки внутри строковых литералов
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}
