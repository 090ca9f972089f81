// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets components that stamp or wait on time take an
// injected [Clock] instead of calling the time package.
//
// The tray passes [Real] everywhere. Tests pass a [FakeClock], which
// stands still until Advance moves it:
//
//	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
//	go waitForFade(fake)
//	fake.WaitForTimers(1)
//	fake.Advance(5 * time.Second)
package clock
