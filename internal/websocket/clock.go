package websocket

import "sync"

// remoteClock adapts a browser-side audio element to the playback
// engine's clock interface. Position updates arrive as tick messages;
// outbound commands are collected and shipped with the next sync_state
// frame instead of being applied locally.
type remoteClock struct {
	mu       sync.Mutex
	ready    bool
	position float64
	playing  bool
	rate     float64
	seekTo   *float64
}

func newRemoteClock() *remoteClock {
	return &remoteClock{rate: 1.0}
}

func (c *remoteClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *remoteClock) Seek(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = t
	target := t
	c.seekTo = &target
}

func (c *remoteClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
}

func (c *remoteClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

func (c *remoteClock) SetRate(r float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rate = r
}

func (c *remoteClock) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// observe records a position reported by the client. The first report
// marks the clock ready.
func (c *remoteClock) observe(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = t
	c.ready = true
}

// markReady flags the clock usable before the first tick, at position
// zero. Used right after a session load so jump commands work
// immediately.
func (c *remoteClock) markReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = 0
	c.ready = true
	c.seekTo = nil
}

// takeSeek returns and clears the pending seek command, if any.
func (c *remoteClock) takeSeek() *float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.seekTo
	c.seekTo = nil
	return target
}
