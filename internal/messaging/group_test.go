package messaging_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// shutdownLog records the order in which runnables are shut down.
type shutdownLog struct {
	mu    sync.Mutex
	names []string
}

func (l *shutdownLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.names = append(l.names, name)
}

type mockRunnable struct {
	name        string
	topic       string
	log         *shutdownLog
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true
	if m.log != nil {
		m.log.add(m.name)
	}

	return m.shutdownErr
}

type topicRunnable struct {
	mockRunnable
}

func (r *topicRunnable) Topic() string { return r.topic }

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts all consumers", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{}

		group.Add(first)
		group.Add(second)

		require.NoError(t, group.Start(context.Background()))
		assert.True(t, first.started)
		assert.True(t, second.started)
	})

	t.Run("rolls back started consumers on failure", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{}
		second := &mockRunnable{startErr: errors.New("start error")}
		third := &mockRunnable{}

		group.Add(first)
		group.Add(second)
		group.Add(third)

		err := group.Start(context.Background())

		require.ErrorContains(t, err, "start consumer 1")
		assert.True(t, first.shutdown)
		assert.False(t, second.shutdown)
		assert.False(t, third.started)
	})
}

func TestConsumerGroup_Topics(t *testing.T) {
	group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
	group.Add(&topicRunnable{mockRunnable{topic: "link.created"}})
	group.Add(&mockRunnable{})

	assert.Equal(t, []string{"link.created"}, group.Topics())
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("stops consumers in reverse order and closes the subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		log := &shutdownLog{}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		group.Add(&mockRunnable{name: "first", log: log})
		group.Add(&mockRunnable{name: "second", log: log})
		require.NoError(t, group.Start(context.Background()))

		require.NoError(t, group.Shutdown())
		assert.Equal(t, []string{"second", "first"}, log.names)
		assert.True(t, sub.isClosed())
	})

	t.Run("joins errors but shuts down all", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{shutdownErr: errors.New("shutdown error 1")}
		second := &mockRunnable{shutdownErr: errors.New("shutdown error 2")}

		group.Add(first)
		group.Add(second)
		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.Error(t, err)
		assert.ErrorContains(t, err, "shutdown error 1")
		assert.ErrorContains(t, err, "shutdown error 2")
		assert.True(t, first.shutdown)
		assert.True(t, second.shutdown)
	})

	t.Run("skips consumers that never started", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		idle := &mockRunnable{}
		group.Add(idle)

		require.NoError(t, group.Shutdown())
		assert.False(t, idle.shutdown)
	})
}
