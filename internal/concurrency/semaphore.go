// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package concurrency provides the single process-wide outbound HTTP
// concurrency cap (spec.md §5): a buffered-channel semaphore shared across
// every tool handler and upstream client.
package concurrency

import "context"

// Semaphore bounds the number of concurrent outbound HTTP requests.
type Semaphore struct {
	slots chan struct{}
}

// NewSemaphore builds a Semaphore with the given number of permits.
func NewSemaphore(permits int) *Semaphore {
	if permits <= 0 {
		permits = 1
	}
	return &Semaphore{slots: make(chan struct{}, permits)}
}

// Acquire blocks until a permit is available or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the pool.
func (s *Semaphore) Release() {
	<-s.slots
}
