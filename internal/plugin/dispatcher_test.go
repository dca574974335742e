package plugin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell hook test on Windows")
	}

	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "events.log")

	dir := writeManifest(t, root, "recorder", Manifest{
		Name:       "recorder",
		Executable: "hook.sh",
		Events:     []string{"grab", "release"},
	})
	script := "#!/bin/sh\ncat >> " + out + "\necho >> " + out + "\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(dir, "hook.sh"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write hook: %v", err)
	}

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	var mu sync.Mutex
	calls := 0
	d := NewDispatcher(manager, NewExecutor(5*time.Second), 8, func(p *Plugin, req *Request, resp *Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if err != nil {
			t.Errorf("hook failed: %v", err)
		}
	})

	for _, ev := range []string{"show", "grab", "release", "hide"} {
		if !d.Dispatch(&Request{Event: ev, Session: "s1"}) {
			t.Errorf("dispatch %s dropped", ev)
		}
	}
	d.Close(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("hook ran %d times, want 2", calls)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read hook output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 logged events, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"event":"grab"`) || !strings.Contains(lines[1], `"event":"release"`) {
		t.Errorf("events logged out of order: %v", lines)
	}
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	d := NewDispatcher(NewManager(""), NewExecutor(time.Second), 1, nil)
	d.Close(context.Background())
	d.Close(context.Background())

	if d.Dispatch(&Request{Event: "show"}) {
		t.Error("dispatch after close should be refused")
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell hook test on Windows")
	}

	root := t.TempDir()
	dir := writeManifest(t, root, "slow", Manifest{Name: "slow", Executable: "hook.sh"})
	os.WriteFile(filepath.Join(dir, "hook.sh"), []byte("#!/bin/sh\nsleep 1\necho '{\"success\":true}'\n"), 0755)

	manager := NewManager(root)
	manager.Discover()

	d := NewDispatcher(manager, NewExecutor(5*time.Second), 1, nil)

	accepted := 0
	for i := 0; i < 10; i++ {
		if d.Dispatch(&Request{Event: "show"}) {
			accepted++
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	d.Close(ctx)

	if accepted >= 10 {
		t.Error("a full queue should drop requests")
	}
	if d.Dropped() != 10-accepted {
		t.Errorf("Dropped() = %d, want %d", d.Dropped(), 10-accepted)
	}
}
