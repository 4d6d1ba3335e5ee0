package nlquery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-hub-service/internal/core/domain"
)

func gatewayStub(t *testing.T, modelText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/proxy/claude/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body is not valid JSON: %v", err)
		}

		resp := messagesResponse{Content: []contentBlock{{Type: "text", Text: modelText}}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newAdapter(t *testing.T, serverURL string) *ClaudeTranslatorAdapter {
	t.Helper()
	adapter, err := NewClaudeTranslatorAdapter(serverURL, "test-token", "claude-3-haiku-20240307")
	if err != nil {
		t.Fatalf("NewClaudeTranslatorAdapter() error = %v", err)
	}
	return adapter
}

func TestTranslate_CleanJSONResponse(t *testing.T) {
	server := gatewayStub(t, `{"district":"大安區","maxPrice":20000,"hasPet":true,"roomType":null}`)
	defer server.Close()

	criteria, err := newAdapter(t, server.URL).Translate(context.Background(), "大安區兩萬以下可養寵物")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	if criteria.District == nil || *criteria.District != "大安區" {
		t.Errorf("district = %v", criteria.District)
	}
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 20000 {
		t.Errorf("maxPrice = %v", criteria.MaxPrice)
	}
	if criteria.HasPet == nil || !*criteria.HasPet {
		t.Errorf("hasPet = %v", criteria.HasPet)
	}
	// null в ответе модели остаётся nil-условием
	if criteria.RoomType != nil {
		t.Errorf("roomType = %v, want nil", criteria.RoomType)
	}
}

func TestTranslate_JSONWrappedInProse(t *testing.T) {
	server := gatewayStub(t, "以下是解析結果：\n```\n{\"district\":\"信義區\",\"minPrice\":15000}\n```\n希望有幫助")
	defer server.Close()

	criteria, err := newAdapter(t, server.URL).Translate(context.Background(), "信義區一萬五以上")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if criteria.District == nil || *criteria.District != "信義區" {
		t.Errorf("district = %v", criteria.District)
	}
	if criteria.MinPrice == nil || *criteria.MinPrice != 15000 {
		t.Errorf("minPrice = %v", criteria.MinPrice)
	}
}

func TestTranslate_NoJSONInResponse(t *testing.T) {
	server := gatewayStub(t, "抱歉，我無法解析這個查詢。")
	defer server.Close()

	_, err := newAdapter(t, server.URL).Translate(context.Background(), "嗨")
	if err == nil {
		t.Fatal("expected error for response without JSON")
	}
	var te *domain.TranslationError
	if !errors.As(err, &te) {
		t.Errorf("error = %T, want *domain.TranslationError", err)
	}
}

func TestTranslate_SchemaViolationRejected(t *testing.T) {
	// minPrice строкой нарушает схему — откат к пустому фильтру запрещён
	server := gatewayStub(t, `{"district":"大安區","minPrice":"兩萬"}`)
	defer server.Close()

	_, err := newAdapter(t, server.URL).Translate(context.Background(), "大安區兩萬")
	if err == nil {
		t.Fatal("expected schema validation error")
	}
	var te *domain.TranslationError
	if !errors.As(err, &te) {
		t.Errorf("error = %T, want *domain.TranslationError", err)
	}
}

func TestTranslate_GatewayErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newAdapter(t, server.URL).Translate(context.Background(), "大安區")
	if err == nil {
		t.Fatal("expected error for gateway failure")
	}
	var te *domain.TranslationError
	if !errors.As(err, &te) {
		t.Errorf("error = %T, want *domain.TranslationError", err)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"nested braces", `text {"a":{"b":2}} tail`, `{"a":{"b":2}}`, true},
		{"brace inside string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"no object", "nothing here", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("extractJSONObject(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
