// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/sports-tool-server/internal/obslog"
	"github.com/AleutianAI/sports-tool-server/internal/tools"
)

var testMetricsOnce sync.Once
var testMetrics *Metrics

func sharedTestMetrics() *Metrics {
	testMetricsOnce.Do(func() { testMetrics = NewMetrics() })
	return testMetrics
}

func newTestRouter(t *testing.T, handlers map[string]tools.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := obslog.New(obslog.Config{Writer: io.Discard})
	router := New(handlers, logger, 5*time.Second, sharedTestMetrics())
	engine := gin.New()
	router.Register(engine)
	return engine
}

func doMCP(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRouter_EchoesNumericIDByteExact(t *testing.T) {
	handlers := map[string]tools.Handler{
		"echo": func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
			return tools.Ok("ok", map[string]string{"hello": "world"}, ""), nil
		},
	}
	engine := newTestRouter(t, handlers)
	rec := doMCP(engine, `{"jsonrpc":"2.0","id":42,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":42`) {
		t.Fatalf("expected byte-exact numeric id echo, got %s", rec.Body.String())
	}
}

func TestRouter_EchoesNullID(t *testing.T) {
	handlers := map[string]tools.Handler{
		"echo": func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
			return tools.Ok("ok", nil, ""), nil
		},
	}
	engine := newTestRouter(t, handlers)
	rec := doMCP(engine, `{"jsonrpc":"2.0","id":null,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)

	if !strings.Contains(rec.Body.String(), `"id":null`) {
		t.Fatalf("expected null id echo, got %s", rec.Body.String())
	}
}

func TestRouter_MalformedJSONReturnsParseError(t *testing.T) {
	engine := newTestRouter(t, map[string]tools.Handler{})
	rec := doMCP(engine, `{not-json`)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response itself wasn't valid JSON: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != CodeParseError {
		t.Fatalf("expected parse error code %d, got %+v", CodeParseError, resp.Error)
	}
}

func TestRouter_NonToolsCallMethodReturnsMethodNotFound(t *testing.T) {
	engine := newTestRouter(t, map[string]tools.Handler{})
	rec := doMCP(engine, `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response wasn't valid JSON: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Fatalf("expected method-not-found code %d, got %+v", CodeMethodNotFound, resp.Error)
	}
}

func TestRouter_UnknownToolNameReturnsMethodNotFound(t *testing.T) {
	engine := newTestRouter(t, map[string]tools.Handler{})
	rec := doMCP(engine, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"doesNotExist","arguments":{}}}`)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response wasn't valid JSON: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Fatalf("expected method-not-found code %d, got %+v", CodeMethodNotFound, resp.Error)
	}
	if !strings.HasPrefix(resp.Error.Message, "Unknown tool:") {
		t.Fatalf("expected message prefixed with %q, got %q", "Unknown tool:", resp.Error.Message)
	}
}

func TestRouter_ArgumentsAreForwardedToHandler(t *testing.T) {
	var received json.RawMessage
	handlers := map[string]tools.Handler{
		"capture": func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
			received = raw
			return tools.Ok("ok", nil, ""), nil
		},
	}
	engine := newTestRouter(t, handlers)
	doMCP(engine, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"capture","arguments":{"team_id":147}}}`)

	if received == nil {
		t.Fatalf("expected handler to receive arguments, got nil")
	}
	if !strings.Contains(string(received), `"team_id":147`) {
		t.Fatalf("expected forwarded arguments to contain team_id, got %s", received)
	}
}

func TestRouter_HandlerErrorReturnsServerError(t *testing.T) {
	handlers := map[string]tools.Handler{
		"boom": func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
			return tools.Result{}, errors.New("upstream exploded")
		},
	}
	engine := newTestRouter(t, handlers)
	rec := doMCP(engine, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"boom","arguments":{}}}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response wasn't valid JSON: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != CodeServerError {
		t.Fatalf("expected server error code %d, got %+v", CodeServerError, resp.Error)
	}
}

func TestRouter_SuccessfulResultIsWrappedVerbatim(t *testing.T) {
	handlers := map[string]tools.Handler{
		"get": func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
			return tools.Ok("done", map[string]int{"count": 3}, ""), nil
		},
	}
	engine := newTestRouter(t, handlers)
	rec := doMCP(engine, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"get","arguments":{}}}`)

	var resp struct {
		Result tools.Result `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response wasn't valid JSON: %v", err)
	}
	if !resp.Result.OK || resp.Result.ContentMD != "done" {
		t.Fatalf("expected the handler's Result wrapped verbatim, got %+v", resp.Result)
	}
}

func TestRouter_HandlerPanicIsRecoveredAsServerError(t *testing.T) {
	handlers := map[string]tools.Handler{
		"panics": func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
			panic("boom")
		},
	}
	engine := newTestRouter(t, handlers)
	rec := doMCP(engine, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"panics","arguments":{}}}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected a recovered panic to produce a 500, got %d", rec.Code)
	}
}
