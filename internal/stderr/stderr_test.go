//go:build !windows

package stderr

import (
	"os"
	"testing"
)

func TestPump_DeliversTrimmedLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	c := &Capture{lines: make(chan string, lineBuffer), r: r, w: w, done: make(chan struct{})}
	go c.pump()

	if _, err := w.WriteString("  ALSA lib pcm.c: underrun  \n\n\nsecond\n"); err != nil {
		t.Fatal(err)
	}
	w.Close()
	<-c.done
	r.Close()

	var got []string
	for line := range c.Lines() {
		got = append(got, line)
	}
	want := []string{"ALSA lib pcm.c: underrun", "second"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
