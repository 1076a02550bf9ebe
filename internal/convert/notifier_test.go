package convert

import (
	"sort"
	"sync"
	"testing"
)

func TestNotifierDeliversToAllListeners(t *testing.T) {
	var n Notifier
	var mu sync.Mutex
	var got []string

	record := func(tag string) func(string) {
		return func(path string) {
			mu.Lock()
			got = append(got, tag+":"+path)
			mu.Unlock()
		}
	}
	n.Subscribe(record("a"))
	unsubscribeB := n.Subscribe(record("b"))

	n.notify("out.mp4")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a:out.mp4" || got[1] != "b:out.mp4" {
		t.Fatalf("unexpected deliveries %v", got)
	}

	unsubscribeB()
	unsubscribeB()
	got = nil
	n.notify("second.mp4")
	if len(got) != 1 || got[0] != "a:second.mp4" {
		t.Fatalf("unsubscribe did not remove listener: %v", got)
	}
}

func TestNotifierIgnoresNilListener(t *testing.T) {
	var n Notifier
	unsubscribe := n.Subscribe(nil)
	unsubscribe()
	n.notify("out.mp4")
}

func TestNotifierListenerMaySubscribe(t *testing.T) {
	var n Notifier
	calls := 0
	n.Subscribe(func(string) {
		calls++
		n.Subscribe(func(string) {})
	})
	n.notify("out.mp4")
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
