// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the chat transcript and the busy flag.
//
// A Machine moves between two states. Submit takes it from Idle to
// AwaitingResponse and appends the user message synchronously. The returned
// Dispatch performs the network call without touching machine state, and
// Complete appends the reply and always returns the machine to Idle.
//
//	d, ok := m.Submit(input)
//	if ok {
//	    out := d.Run(ctx)   // any goroutine
//	    m.Complete(out)     // back on the owning goroutine
//	}
//
// Failures from either generator become a fixed placeholder reply. They are
// logged and never returned to the caller.
//
// Rendering code observes changes with Subscribe.
package conversation
