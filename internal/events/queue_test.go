package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/patrickwarner/partnersdk/internal/observability"
)

func TestQueuePreservesOrderAndDeliversOnce(t *testing.T) {
	metrics := observability.NewRecordingRegistry()
	q := NewQueue(zaptest.NewLogger(t), metrics)

	// emit everything before anyone reads; Emit must not block
	for i := 0; i < 100; i++ {
		q.Emit(ScreenName{Name: string(rune('a' + i%26))})
	}
	q.Close()

	var got []Event
	for e := range q.Events() {
		got = append(got, e)
	}
	require.Len(t, got, 100)
	for i, e := range got {
		assert.Equal(t, ScreenName{Name: string(rune('a' + i%26))}, e)
	}
	assert.Equal(t, 100, metrics.Count("event", "ScreenName"))
}

func TestQueueDropsAfterClose(t *testing.T) {
	q := NewQueue(nil, nil)
	q.Emit(TextClicked{})
	q.Close()
	q.Emit(PopupClosed{})

	var kinds []Kind
	for e := range q.Events() {
		kinds = append(kinds, e.Kind())
	}
	assert.Equal(t, []Kind{KindTextClicked}, kinds)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue(nil, nil)

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Emit(ActionButtonTapped{})
			}
		}()
	}

	done := make(chan int)
	go func() {
		n := 0
		for range q.Events() {
			n++
		}
		done <- n
	}()

	wg.Wait()
	q.Close()

	select {
	case n := <-done:
		assert.Equal(t, 200, n)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not finish")
	}
}

func TestSdkErrorFormatting(t *testing.T) {
	base := errors.New("boom")
	e := SdkError{Err: base}
	assert.Equal(t, "SdkError(error=boom)", e.String())
	assert.ErrorIs(t, e, base)
	assert.Equal(t, KindSdkError, e.Kind())
}

func TestRecorderWaitFor(t *testing.T) {
	r := NewRecorder()
	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Emit(PopupClosed{})
	}()

	e, ok := r.WaitFor(KindPopupClosed, time.Second)
	require.True(t, ok)
	assert.Equal(t, PopupClosed{}, e)

	_, ok = r.WaitFor(KindTextClicked, 20*time.Millisecond)
	assert.False(t, ok)
}
