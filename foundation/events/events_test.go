package events_test

import (
	"errors"
	"testing"

	"github.com/hashchain/hashchain/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("one")
	ch2 := evts.Acquire("two")

	if evts.Acquire("one") != ch1 {
		t.Fatalf("Should get back the same channel for the same id.")
	}

	if n := evts.Send("block mined"); n != 2 {
		t.Fatalf("Should deliver the message to both feeds, got %d.", n)
	}

	for i, ch := range []<-chan string{ch1, ch2} {
		if msg := <-ch; msg != "block mined" {
			t.Fatalf("Should receive the message on channel %d, got %q.", i, msg)
		}
	}

	if err := evts.Release("one"); err != nil {
		t.Fatalf("Should be able to release a channel: %s", err)
	}

	if _, open := <-ch1; open {
		t.Fatalf("Should close a released channel.")
	}

	if err := evts.Release("one"); !errors.Is(err, events.ErrUnknownFeed) {
		t.Fatalf("Should not be able to release a channel twice, got %v.", err)
	}

	evts.Shutdown()

	if _, open := <-ch2; open {
		t.Fatalf("Should close every channel on shutdown.")
	}

	if evts.Count() != 0 {
		t.Fatalf("Should have no receivers after shutdown, got %d.", evts.Count())
	}
}

func Test_SendDoesNotBlock(t *testing.T) {
	evts := events.New()
	defer evts.Shutdown()

	ch := evts.Acquire("slow")

	for i := 0; i < 500; i++ {
		evts.Send("event")
	}

	if len(ch) == 0 || len(ch) == 500 {
		t.Fatalf("Should buffer some messages and drop the rest, got %d.", len(ch))
	}

	if got := evts.Dropped("slow"); got != uint64(500-len(ch)) {
		t.Fatalf("Should count every dropped message, got %d for %d buffered.", got, len(ch))
	}
}
