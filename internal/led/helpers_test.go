package led

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-led/internal/driver"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-led/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-led/internal/storage"
	"github.com/nerrad567/gray-logic-led/migrations"
)

const testTick = 10 * time.Millisecond

// ─── Mock Dependencies ──────────────────────────────────────────────────────

// mockPublisher captures PublishAsync calls and acknowledges them inline.
type mockPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	refuse   string // Topic to refuse outright
	nack     string // Topic to fail on acknowledgement
}

type publishedMessage struct {
	Topic    string
	Payload  string
	QoS      byte
	Retained bool
}

func (m *mockPublisher) PublishAsync(topic string, payload []byte, qos byte, retained bool, done mqtt.PublishCallback) error {
	if topic == m.refuse {
		return mqtt.ErrNotConnected
	}

	m.mu.Lock()
	m.messages = append(m.messages, publishedMessage{
		Topic:    topic,
		Payload:  string(payload),
		QoS:      qos,
		Retained: retained,
	})
	m.mu.Unlock()

	if done != nil {
		if topic == m.nack {
			done(errors.New("broker refused"))
		} else {
			done(nil)
		}
	}
	return nil
}

func (m *mockPublisher) getMessages() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	cpy := make([]publishedMessage, len(m.messages))
	copy(cpy, m.messages)
	return cpy
}

// mockSource records subscriptions and the connect callback.
type mockSource struct {
	mu        sync.Mutex
	handlers  map[string]mqtt.MessageHandler
	qos       map[string]byte
	order     []string
	onConnect func()
	failOn    string
}

func newMockSource() *mockSource {
	return &mockSource{
		handlers: make(map[string]mqtt.MessageHandler),
		qos:      make(map[string]byte),
	}
}

func (m *mockSource) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	if topic == m.failOn {
		return mqtt.ErrSubscribeFailed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = handler
	m.qos[topic] = qos
	m.order = append(m.order, topic)
	return nil
}

func (m *mockSource) SetOnConnect(callback func()) {
	m.mu.Lock()
	m.onConnect = callback
	m.mu.Unlock()
}

// deliver simulates an inbound message.
func (m *mockSource) deliver(t *testing.T, topic, payload string) {
	t.Helper()
	m.mu.Lock()
	h, ok := m.handlers[topic]
	m.mu.Unlock()
	if !ok {
		t.Fatalf("no handler subscribed for %s", topic)
	}
	if err := h(topic, []byte(payload)); err != nil {
		t.Fatalf("handler(%s) error = %v", topic, err)
	}
}

// recordingDriver keeps every flushed frame.
type recordingDriver struct {
	staged driver.Frame
	frames []driver.Frame
	err    error
}

func (d *recordingDriver) SetPixel(hue uint16, saturation, brightness uint8) error {
	d.staged = driver.Frame{Hue: hue, Saturation: saturation, Brightness: brightness}
	return d.err
}

func (d *recordingDriver) Flush() error {
	d.frames = append(d.frames, d.staged)
	return nil
}

func (d *recordingDriver) last() driver.Frame {
	if len(d.frames) == 0 {
		return driver.Frame{}
	}
	return d.frames[len(d.frames)-1]
}

// failingKV wraps a KV and fails writes to selected keys or the commit.
type failingKV struct {
	KV
	failKeys   map[string]bool
	failCommit bool
}

var errInjected = errors.New("injected failure")

func (f *failingKV) SetU8(key string, v uint8) error {
	if f.failKeys[key] {
		return errInjected
	}
	return f.KV.SetU8(key, v)
}

func (f *failingKV) SetU16(key string, v uint16) error {
	if f.failKeys[key] {
		return errInjected
	}
	return f.KV.SetU16(key, v)
}

func (f *failingKV) Commit(ctx context.Context) error {
	if f.failCommit {
		return errInjected
	}
	return f.KV.Commit(ctx)
}

// mockPointWriter captures telemetry points.
type mockPointWriter struct {
	measurement string
	tags        map[string]string
	fields      map[string]any
	count       int
}

func (m *mockPointWriter) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	m.measurement = measurement
	m.tags = tags
	m.fields = fields
	m.count++
}

// mockBroadcaster captures live events.
type mockBroadcaster struct {
	events   []string
	payloads []any
}

func (m *mockBroadcaster) Broadcast(event string, payload any) {
	m.events = append(m.events, event)
	m.payloads = append(m.payloads, payload)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// openHandle opens the demo namespace on backend.
func openHandle(t *testing.T, backend storage.Backend) *storage.Handle {
	t.Helper()
	h, err := storage.Open(backend, "demo")
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	return h
}

// openSQLiteBackend returns a backend over a migrated database at path.
func openSQLiteBackend(t *testing.T, path string) storage.Backend {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Path: path, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return storage.NewSQLiteBackend(db.DB)
}

// backends runs fn against a fresh memory backend and a fresh SQLite file.
// reopen returns a backend over the same durable data, as after a restart.
func backends(t *testing.T, fn func(t *testing.T, fresh storage.Backend, reopen func() storage.Backend)) {
	t.Run("memory", func(t *testing.T) {
		b := storage.NewMemoryBackend()
		fn(t, b, func() storage.Backend { return b })
	})
	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "led.db")
		fn(t, openSQLiteBackend(t, path), func() storage.Backend { return openSQLiteBackend(t, path) })
	})
}

// engine bundles a wired controller and loop over in-memory dependencies.
type engine struct {
	store      *Store
	channel    *Channel
	controller *Controller
	loop       *Loop
	publisher  *mockPublisher
	driver     *recordingDriver
	kv         *storage.Handle
	backend    storage.Backend
}

func newEngine(t *testing.T, initial LightState) *engine {
	t.Helper()

	logger := logging.Discard()
	topics := mqtt.NewTopics(config.MQTTTopicsConfig{})

	ch, err := NewChannel(DefaultQueueCapacity)
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}

	backend := storage.NewMemoryBackend()
	kv := openHandle(t, backend)
	pub := &mockPublisher{}
	drv := &recordingDriver{}
	store := NewStore(initial)
	publisher := NewPublisher(pub, topics, logger)

	return &engine{
		store:      store,
		channel:    ch,
		controller: NewController(testTick, store, ch, publisher, topics, logger),
		loop:       NewLoop(testTick, DefaultRainbowSubsample, ch, store, drv, NewPersister(kv, logger), publisher, logger),
		publisher:  pub,
		driver:     drv,
		kv:         kv,
		backend:    backend,
	}
}
