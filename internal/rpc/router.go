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
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/sports-tool-server/internal/obslog"
	"github.com/AleutianAI/sports-tool-server/internal/toolerr"
	"github.com/AleutianAI/sports-tool-server/internal/tools"
)

// Router dispatches tools/call requests to the named handler.
type Router struct {
	Handlers        map[string]tools.Handler
	Logger          *obslog.Logger
	RequestDeadline time.Duration
	Metrics         *Metrics
	Tracer          trace.Tracer
}

// New builds a Router over a handler registry.
func New(handlers map[string]tools.Handler, logger *obslog.Logger, deadline time.Duration, metrics *Metrics) *Router {
	return &Router{
		Handlers:        handlers,
		Logger:          logger,
		RequestDeadline: deadline,
		Metrics:         metrics,
		Tracer:          otel.Tracer("sports-tool-server/rpc"),
	}
}

// Register mounts the router's routes onto a gin engine.
func (r *Router) Register(engine *gin.Engine) {
	engine.POST("/mcp", r.handleMCP)
	engine.GET("/healthz", r.handleHealthz)
}

func (r *Router) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (r *Router) handleMCP(c *gin.Context) {
	requestID := uuid.NewString()
	c.Writer.Header().Set("X-Request-Id", requestID)

	var req Request
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		r.Logger.Warn("malformed json-rpc body", "request_id", requestID, "error", err)
		c.JSON(http.StatusOK, errorResponse(nil, CodeParseError, "Parse error"))
		return
	}

	if req.Method != "tools/call" {
		c.JSON(http.StatusOK, errorResponse(req.ID, CodeMethodNotFound, "Method not found"))
		return
	}

	handler, ok := r.Handlers[req.Params.Name]
	if !ok {
		c.JSON(http.StatusOK, errorResponse(req.ID, CodeMethodNotFound, "Unknown tool: "+req.Params.Name))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), r.RequestDeadline)
	defer cancel()

	ctx, span := r.Tracer.Start(ctx, "tools/call", trace.WithAttributes(
		attribute.String("tool", req.Params.Name),
		attribute.String("request_id", requestID),
	))
	defer span.End()

	result, err := r.invoke(ctx, handler, req.Params.Name, req.Params.Arguments, requestID)
	if err != nil {
		r.Logger.Error("tool handler error", "request_id", requestID, "tool", req.Params.Name, "error", err)
		if r.Metrics != nil {
			r.Metrics.ToolErrors.WithLabelValues(req.Params.Name).Inc()
		}
		c.JSON(http.StatusInternalServerError, errorResponse(req.ID, CodeServerError, "Server error: "+shortMessage(err)))
		return
	}

	if r.Metrics != nil {
		r.Metrics.ToolCalls.WithLabelValues(req.Params.Name, boolLabel(result.OK)).Inc()
	}
	c.JSON(http.StatusOK, successResponse(req.ID, result))
}

// invoke calls the handler, recovering any panic into an error so the
// router never propagates an unhandled exception (spec.md §2.2/§7).
func (r *Router) invoke(ctx context.Context, h tools.Handler, name string, arguments json.RawMessage, requestID string) (result tools.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Logger.Error("tool handler panicked", "request_id", requestID, "tool", name, "recovered", rec)
			err = toolerr.NewInternalError(fmt.Errorf("panic: %v", rec))
		}
	}()
	return h(ctx, arguments)
}

func shortMessage(err error) string {
	const maxLen = 200
	msg := err.Error()
	if len(msg) > maxLen {
		return msg[:maxLen]
	}
	return msg
}

func boolLabel(b bool) string {
	if b {
		return "ok"
	}
	return "failed"
}
