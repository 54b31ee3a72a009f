package stream

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"faith-companion-be/pkg/chat/contextpayload"
	"faith-companion-be/pkg/llm"
)

// chunkReadCloser feeds the body a few bytes per Read so lines are split
// across read boundaries.
type chunkReadCloser struct {
	data  []byte
	chunk int
	pos   int
}

func newChunkBody(s string, chunk int) *chunkReadCloser {
	return &chunkReadCloser{data: []byte(s), chunk: chunk}
}

func (r *chunkReadCloser) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func (r *chunkReadCloser) Close() error { return nil }

type fakeStreamProvider struct {
	bodies     []io.ReadCloser
	openErrs   []error
	seenModels []string
	calls      int
}

func (f *fakeStreamProvider) OpenStream(ctx context.Context, history []llm.Message, options ...llm.Option) (io.ReadCloser, error) {
	opts := &llm.Options{}
	for _, o := range options {
		o(opts)
	}
	f.seenModels = append(f.seenModels, opts.Model)

	i := f.calls
	f.calls++
	if i < len(f.openErrs) && f.openErrs[i] != nil {
		return nil, f.openErrs[i]
	}
	return f.bodies[i], nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testAllow() *contextpayload.AllowLists {
	return contextpayload.Extract(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"id": "verse-1"},
		},
	})
}

func TestSessionRunAssemblesLinesAcrossChunks(t *testing.T) {
	body := `{"type":"suggestion","label":"Read Psalm 23","evidence_ids":["verse-1"]}
not json at all
{"type":"command"}
{"type":"suggestion","label":"Forged","evidence_ids":["other"]}
{"type":"note","text":"They are grieving"}
{"type":"done"}`

	provider := &fakeStreamProvider{bodies: []io.ReadCloser{newChunkBody(body, 7)}}
	session := NewSession(provider, testLogger())

	var callbackOrder []EventType
	result, err := session.Run(context.Background(), Config{Model: "llama3"}, nil, testAllow(), func(e *Event) {
		callbackOrder = append(callbackOrder, e.Type)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantOrder := []EventType{EventTypeSuggestion, EventTypeNote, EventTypeDone}
	if len(result.Events) != len(wantOrder) {
		t.Fatalf("event count = %d, want %d", len(result.Events), len(wantOrder))
	}
	for i, want := range wantOrder {
		if result.Events[i].Type != want {
			t.Errorf("event[%d].Type = %q, want %q", i, result.Events[i].Type, want)
		}
		if callbackOrder[i] != want {
			t.Errorf("callback[%d] = %q, want %q", i, callbackOrder[i], want)
		}
	}

	if result.Summary.AcceptedSuggestions != 1 {
		t.Errorf("accepted suggestions = %d, want 1", result.Summary.AcceptedSuggestions)
	}
	if result.Summary.Dropped != 3 {
		t.Errorf("dropped = %d, want 3", result.Summary.Dropped)
	}
	if result.Summary.DropReasons[DropReasonMalformedJSON] != 1 ||
		result.Summary.DropReasons[DropReasonUnknownType] != 1 ||
		result.Summary.DropReasons[DropReasonEvidenceNotAllowed] != 1 {
		t.Errorf("drop reasons = %v", result.Summary.DropReasons)
	}
	if result.Summary.UsedFallback {
		t.Error("fallback flagged without transport failure")
	}

	// The final line has no trailing newline; it must still be parsed at EOF
	if !strings.Contains(result.RawText, `{"type":"done"}`) {
		t.Error("trailing unterminated line missing from raw text")
	}
}

func TestSessionRunTransportFailure(t *testing.T) {
	provider := &fakeStreamProvider{openErrs: []error{errors.New("connection refused")}}
	session := NewSession(provider, testLogger())

	result, err := session.Run(context.Background(), Config{Model: "llama3"}, nil, testAllow(), nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if result != nil {
		t.Errorf("partial result synthesized on transport failure: %v", result)
	}
}

func TestSessionRunFallbackModel(t *testing.T) {
	body := `{"type":"done"}` + "\n"
	provider := &fakeStreamProvider{
		openErrs: []error{errors.New("model overloaded"), nil},
		bodies:   []io.ReadCloser{nil, newChunkBody(body, 64)},
	}
	session := NewSession(provider, testLogger())

	result, err := session.Run(context.Background(), Config{
		Model:         "primary",
		FallbackModel: "backup",
	}, nil, testAllow(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Summary.UsedFallback {
		t.Error("UsedFallback not set")
	}
	if len(provider.seenModels) != 2 || provider.seenModels[0] != "primary" || provider.seenModels[1] != "backup" {
		t.Errorf("models tried = %v", provider.seenModels)
	}
}

func TestSessionRunFallbackAlsoFails(t *testing.T) {
	provider := &fakeStreamProvider{
		openErrs: []error{errors.New("down"), errors.New("also down")},
	}
	session := NewSession(provider, testLogger())

	_, err := session.Run(context.Background(), Config{
		Model:         "primary",
		FallbackModel: "backup",
	}, nil, testAllow(), nil)
	if err == nil {
		t.Fatal("expected error when fallback fails too")
	}
	if provider.calls != 2 {
		t.Errorf("open calls = %d, want 2", provider.calls)
	}
}

// cancellingBody delivers a partial line, cancels the context, then signals
// end of stream.
type cancellingBody struct {
	cancel context.CancelFunc
	data   []byte
	served bool
}

func (r *cancellingBody) Read(p []byte) (int, error) {
	if !r.served {
		r.served = true
		n := copy(p, r.data)
		return n, nil
	}
	r.cancel()
	return 0, io.EOF
}

func (r *cancellingBody) Close() error { return nil }

func TestSessionRunCancelDiscardsPartialLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	provider := &fakeStreamProvider{
		bodies: []io.ReadCloser{&cancellingBody{
			cancel: cancel,
			data:   []byte(`{"type":"suggestion","label":"Trunc`),
		}},
	}
	session := NewSession(provider, testLogger())

	result, err := session.Run(ctx, Config{Model: "llama3"}, nil, testAllow(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result != nil {
		t.Errorf("result synthesized after cancellation: %v", result)
	}
}

type failingBody struct {
	data   []byte
	served bool
}

func (r *failingBody) Read(p []byte) (int, error) {
	if !r.served {
		r.served = true
		n := copy(p, r.data)
		return n, nil
	}
	return 0, errors.New("connection reset")
}

func (r *failingBody) Close() error { return nil }

func TestSessionRunMidStreamReadFailure(t *testing.T) {
	provider := &fakeStreamProvider{
		bodies: []io.ReadCloser{&failingBody{
			data: []byte(`{"type":"done"}` + "\n"),
		}},
	}
	session := NewSession(provider, testLogger())

	result, err := session.Run(context.Background(), Config{Model: "llama3"}, nil, testAllow(), nil)
	if err == nil {
		t.Fatal("expected mid-stream read error")
	}
	if result != nil {
		t.Errorf("partial result returned after read failure: %v", result)
	}
}
