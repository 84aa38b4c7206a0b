package playback

import (
	"testing"
	"testing/synctest"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{State: StatePlaying, Index: 1, Name: "B"})
		sub.sendLog("Playing: B")

		e := <-sub.StateChanged
		if e.State != StatePlaying || e.Index != 1 || e.Name != "B" {
			t.Errorf("StateChanged = %+v, want Playing/1/B", e)
		}

		if msg := <-sub.Logged; msg != "Playing: B" {
			t.Errorf("Logged = %q, want %q", msg, "Playing: B")
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()

	// Fill buffer
	for range eventBufferSize + 5 {
		sub.sendState(StateChange{})
		sub.sendLog("x")
	}

	count := 0
	for {
		select {
		case <-sub.StateChanged:
			count++
		default:
			goto done
		}
	}
done:
	if count != eventBufferSize {
		t.Errorf("received %d events, want %d (buffer size)", count, eventBufferSize)
	}
	if len(sub.Logged) != eventBufferSize {
		t.Errorf("buffered %d log lines, want %d", len(sub.Logged), eventBufferSize)
	}
}
