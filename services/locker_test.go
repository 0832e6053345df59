package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLocker_SerializesSameEvent(t *testing.T) {
	locks := NewEventLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("event-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestEventLocker_IndependentEvents(t *testing.T) {
	locks := NewEventLocker()

	unlockA := locks.Lock("event-a")
	defer unlockA()

	// A held lock on one event must not block another event.
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("event-b")
		unlockB()
		close(done)
	}()
	<-done
}

func TestSplitRecipients(t *testing.T) {
	got := SplitRecipients("a@x.org, b@x.org;c@x.org\n\n d@x.org \n")
	assert.Equal(t, []string{"a@x.org", "b@x.org", "c@x.org", "d@x.org"}, got)
}

func TestSplitRecipients_Empty(t *testing.T) {
	assert.Empty(t, SplitRecipients("  \n ; , \n"))
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("Ada\n\n Bob \n")
	assert.Equal(t, []string{"Ada", "Bob"}, got)
}
