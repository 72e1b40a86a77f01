package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoJob struct {
	Value string `json:"value"`
}

var echoed = make(chan string, 16)

func (echoJob) Name() string { return "test.echo" }
func (j echoJob) Handle() error {
	echoed <- j.Value
	return nil
}

type failingJob struct{}

func (failingJob) Name() string  { return "test.fail" }
func (failingJob) Handle() error { return errors.New("smtp down") }

func TestMemoryDriverRoundTrip(t *testing.T) {
	d := NewMemoryDriver()
	require.NoError(t, d.Push([]byte("payload")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	raw, err := d.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), raw)
}

func TestMemoryDriverPopHonoursContext(t *testing.T) {
	d := NewMemoryDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatchAndProcess(t *testing.T) {
	Register("test.echo", func() Job { return &echoJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, Dispatch(echoJob{Value: "hello"}))

	select {
	case got := <-echoed:
		assert.Equal(t, "hello", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed in time")
	}
}

func TestFailedJobIsRecorded(t *testing.T) {
	Register("test.fail", func() Job { return &failingJob{} })
	SetMaxRetry(1)
	defer SetMaxRetry(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, Dispatch(failingJob{}))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		for _, f := range FailedJobs() {
			if _, ok := f.Job.(*failingJob); ok {
				assert.Equal(t, 1, f.Attempts)
				assert.EqualError(t, f.Err, "smtp down")
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("failed job never recorded")
}

func TestUnregisteredJobIsDropped(t *testing.T) {
	// Process directly; an unknown type must not panic or retry forever.
	defaultManager.process([]byte(`{"type":"test.unknown","payload":{}}`))
	defaultManager.process([]byte(`not json`))
}
