package protocol

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

const actionLine = `{"Method":"Action","Args":{"Turn":"Player","Array":"120000000"}}`

func TestFramerSplitAtEveryBoundary(t *testing.T) {
	msg := []byte(actionLine + "\n")
	whole := NewFramer(0).Feed(msg)
	if len(whole) != 1 || whole[0] != actionLine {
		t.Fatalf("unexpected whole-chunk result %q", whole)
	}

	for i := 0; i <= len(msg); i++ {
		f := NewFramer(0)
		var got []string
		got = append(got, f.Feed(msg[:i])...)
		got = append(got, f.Feed(msg[i:])...)
		if !reflect.DeepEqual(got, whole) {
			t.Fatalf("split at %d: expected %q, got %q", i, whole, got)
		}
		if f.Buffered() != 0 {
			t.Fatalf("split at %d: %d bytes left buffered", i, f.Buffered())
		}
	}
}

func TestFramerByteAtATime(t *testing.T) {
	msg := []byte(actionLine + "\n" + actionLine + "\n")
	f := NewFramer(0)
	var got []string
	for i := range msg {
		got = append(got, f.Feed(msg[i:i+1])...)
	}
	if len(got) != 2 || got[0] != actionLine || got[1] != actionLine {
		t.Fatalf("unexpected lines %q", got)
	}
}

func TestFramerMultipleMessagesInOneRead(t *testing.T) {
	lines := []string{"one", "two", "three", "four"}
	got := NewFramer(0).Feed([]byte(strings.Join(lines, "\n") + "\n"))
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("expected %q, got %q", lines, got)
	}
}

func TestFramerKeepsPartialTail(t *testing.T) {
	f := NewFramer(0)
	got := f.Feed([]byte("first\nsec"))
	if len(got) != 1 || got[0] != "first" {
		t.Fatalf("unexpected lines %q", got)
	}
	if f.Buffered() != 3 {
		t.Fatalf("expected 3 buffered bytes, got %d", f.Buffered())
	}
	got = f.Feed([]byte("ond\n"))
	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("unexpected lines %q", got)
	}
}

func TestFramerLeadingTerminatorYieldsEmptyLine(t *testing.T) {
	f := NewFramer(0)
	f.Feed([]byte("abc"))
	got := f.Feed([]byte("\n\nxyz\n"))
	want := []string{"abc", "", "xyz"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFramerTrimsCarriageReturn(t *testing.T) {
	got := NewFramer(0).Feed([]byte("a\r\nb\n"))
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected lines %q", got)
	}
}

func TestFramerEmptyChunk(t *testing.T) {
	f := NewFramer(0)
	if got := f.Feed(nil); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
}

func TestFramerDropsOversizeLine(t *testing.T) {
	f := NewFramer(8)
	if got := f.Feed(bytes.Repeat([]byte("x"), 10)); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
	if f.Dropped() != 1 {
		t.Fatalf("expected 1 dropped line, got %d", f.Dropped())
	}
	// The rest of the oversize line is discarded up to its terminator.
	got := f.Feed([]byte("yyyy\nok\n"))
	if !reflect.DeepEqual(got, []string{"ok"}) {
		t.Fatalf("expected [ok], got %q", got)
	}
	if f.Buffered() != 0 {
		t.Fatalf("expected empty buffer, got %d bytes", f.Buffered())
	}
}

func TestFramerOversizeLineSameWholeOrSplit(t *testing.T) {
	stream := []byte("short\n" + strings.Repeat("x", 30) + "\n" + strings.Repeat("y", 16) + "\nafter\n")
	want := []string{"short", strings.Repeat("y", 16), "after"}

	whole := NewFramer(16)
	if got := whole.Feed(stream); !reflect.DeepEqual(got, want) {
		t.Fatalf("whole: expected %q, got %q", want, got)
	}
	if whole.Dropped() != 1 {
		t.Fatalf("whole: expected 1 dropped line, got %d", whole.Dropped())
	}

	for i := 1; i < len(stream); i++ {
		f := NewFramer(16)
		got := append(f.Feed(stream[:i]), f.Feed(stream[i:])...)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("split at %d: expected %q, got %q", i, want, got)
		}
		if f.Dropped() != 1 {
			t.Fatalf("split at %d: expected 1 dropped line, got %d", i, f.Dropped())
		}
	}
}
