// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a Clock whose time moves only through Advance. It is
// safe for concurrent use.
type FakeClock struct {
	mutex   sync.Mutex
	changed *sync.Cond
	current time.Time
	pending []*alarm
}

type alarm struct {
	deadline time.Time
	fire     chan time.Time
}

// Fake returns a FakeClock reading start.
func Fake(start time.Time) *FakeClock {
	fake := &FakeClock{current: start}
	fake.changed = sync.NewCond(&fake.mutex)
	return fake
}

// Now returns the fake time.
func (fake *FakeClock) Now() time.Time {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return fake.current
}

// After registers an alarm that fires when Advance reaches now+d.
func (fake *FakeClock) After(d time.Duration) <-chan time.Time {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	fire := make(chan time.Time, 1)
	if d <= 0 {
		fire <- fake.current
		return fire
	}
	fake.pending = append(fake.pending, &alarm{deadline: fake.current.Add(d), fire: fire})
	fake.changed.Broadcast()
	return fire
}

// Advance moves the clock forward by d and fires every alarm whose
// deadline has been reached, earliest first.
func (fake *FakeClock) Advance(d time.Duration) {
	fake.mutex.Lock()
	fake.current = fake.current.Add(d)
	now := fake.current

	var due, waiting []*alarm
	for _, pending := range fake.pending {
		if pending.deadline.After(now) {
			waiting = append(waiting, pending)
		} else {
			due = append(due, pending)
		}
	}
	fake.pending = waiting
	fake.mutex.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, ready := range due {
		ready.fire <- now
	}
}

// WaitForTimers blocks until at least n alarms are pending. Call it
// before Advance when another goroutine registers the alarm.
func (fake *FakeClock) WaitForTimers(n int) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	for len(fake.pending) < n {
		fake.changed.Wait()
	}
}

// Pending returns the number of alarms that have not fired.
func (fake *FakeClock) Pending() int {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()
	return len(fake.pending)
}
