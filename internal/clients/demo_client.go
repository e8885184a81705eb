package clients

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// DemoClient backs the dashboard's demo trading mode: it produces
// plausible balances without touching any exchange. Each client owns
// its own random source so demo accounts drift independently.
type DemoClient struct {
	id string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewDemoClient creates a demo client with the given seed. A zero seed
// is replaced with a fixed one so demo data is reproducible by default.
func NewDemoClient(seed int64) *DemoClient {
	if seed == 0 {
		seed = 42
	}
	return &DemoClient{
		id:  uuid.NewString(),
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// ID returns the generated identifier of this demo session.
func (c *DemoClient) ID() string {
	return c.id
}

// Drift returns a multiplier in [1-spread, 1+spread] for simulating
// small balance and price movements between polls.
func (c *DemoClient) Drift(spread float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return 1 + (c.rnd.Float64()*2-1)*spread
}
