package network

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// link is the health record Monitor keeps for one registered
// transceiver, the same shape the teacher's Pipe keeps per Stream in
// its HealthInfo map.
type link struct {
	mu       sync.Mutex
	Name     string    `json:"name"`
	Kind     string    `json:"kind"` // "transmitter" or "receiver"
	LastSeen time.Time `json:"last_seen"`
}

func (l *link) touch() {
	l.mu.Lock()
	l.LastSeen = time.Now()
	l.mu.Unlock()
}

func (l *link) snapshot() link {
	l.mu.Lock()
	defer l.mu.Unlock()
	return link{Name: l.Name, Kind: l.Kind, LastSeen: l.LastSeen}
}

// Monitor aggregates the join-handles of every transceiver tunnel
// launched in a run (spec.md §4.11) and exposes Wait, which returns
// once every tunnel has terminated — the Go stand-in for joining a
// set of spawned tasks. It additionally serves a /health endpoint plus
// a /watch websocket tap that streams health snapshots, mirroring the
// way the teacher's Pipe hosts a fiber.App for its own /health route;
// that dashboard is a convenience on top of the join aggregation, not
// a replacement for it. One Monitor is constructed per run and passed
// explicitly — there is no global registry.
type Monitor struct {
	app   *fiber.App
	mu    sync.Mutex
	links map[string]*link
	wg    sync.WaitGroup
	errs  []error
}

// NewMonitor builds an unstarted Monitor.
func NewMonitor() *Monitor {
	m := &Monitor{
		app:   fiber.New(fiber.Config{DisableStartupMessage: true}),
		links: map[string]*link{},
	}
	m.app.Get("/health", func(c *fiber.Ctx) error {
		m.mu.Lock()
		snapshots := make([]link, 0, len(m.links))
		for _, l := range m.links {
			snapshots = append(snapshots, l.snapshot())
		}
		m.mu.Unlock()
		return c.JSON(fiber.Map{"links": snapshots})
	})
	m.app.Get("/watch", websocket.New(func(c *websocket.Conn) {
		for {
			m.mu.Lock()
			snapshots := make([]link, 0, len(m.links))
			for _, l := range m.links {
				snapshots = append(snapshots, l.snapshot())
			}
			m.mu.Unlock()
			if err := c.WriteJSON(fiber.Map{"links": snapshots}); err != nil {
				return
			}
			time.Sleep(time.Second)
		}
	}))
	return m
}

// Register adds a transceiver to the monitored set, returning a touch
// function the caller invokes on every frame sent or received. Use
// Launch instead when the caller also wants the tunnel's completion
// joined by Wait.
func (m *Monitor) Register(name, kind string) (touch func()) {
	m.mu.Lock()
	l := &link{Name: name, Kind: kind, LastSeen: time.Now()}
	m.links[name] = l
	m.mu.Unlock()
	return l.touch
}

// Launch registers name/kind as a transceiver tunnel and runs task in
// its own goroutine, joining it as one of the handles Wait aggregates.
// Call it once per Transmitter/Receiver pump loop a model launches,
// passing the returned touch function through to that pump's Monitor
// callback.
func (m *Monitor) Launch(name, kind string, task func() error) (touch func()) {
	touch = m.Register(name, kind)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := task(); err != nil {
			m.mu.Lock()
			m.errs = append(m.errs, fmt.Errorf("network: tunnel %s: %w", name, err))
			m.mu.Unlock()
		}
	}()
	return touch
}

// Wait blocks until every tunnel launched via Launch has terminated —
// spec.md §4.11's "exposes an await that returns when every tunnel has
// terminated." It returns the first non-nil error any tunnel reported,
// if any.
func (m *Monitor) Wait() error {
	m.wg.Wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.errs) > 0 {
		return m.errs[0]
	}
	return nil
}

// Listen starts serving /health and /watch on addr. It blocks until the
// server stops; run it in its own goroutine.
func (m *Monitor) Listen(addr string) error {
	logrus.WithField("addr", addr).Info("monitor listening")
	return m.app.Listen(addr)
}

// Shutdown stops the monitor's HTTP server.
func (m *Monitor) Shutdown() error {
	return m.app.Shutdown()
}
