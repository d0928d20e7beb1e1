package listing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	got  []string
	done chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) apply(v string) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.got))
	copy(out, r.got)
	return out
}

func TestDebouncer_AppliesOnlyLatest(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(30*time.Millisecond, rec.apply)

	d.Submit("g")
	d.Submit("go")
	d.Submit("gol")
	d.Submit("golang")

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value was never applied")
	}
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"golang"}, rec.values())
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(time.Hour, rec.apply)

	assert.False(t, d.Flush())

	d.Submit("rust")
	require.True(t, d.Flush())
	assert.Equal(t, []string{"rust"}, rec.values())
	assert.False(t, d.Flush())

	d.Submit("zig")
	d.Stop()
	assert.False(t, d.Flush())
	assert.Equal(t, []string{"rust"}, rec.values())
}
