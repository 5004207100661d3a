// Package sensors keeps a short rolling history of environmental readings.
package sensors

import (
	"errors"
	"fmt"
	"sync"
)

const DefaultCapacity = 5

// Channel names, in the order readings are reported.
const (
	Rain     = "rain"
	Water    = "water"
	Temp     = "temp"
	Humidity = "humidity"
	Wind     = "wind"
)

var Channels = []string{Rain, Water, Temp, Humidity, Wind}

var ErrUnknownChannel = errors.New("unknown sensor channel")

// Reading is one sample across every channel.
type Reading struct {
	Rain     float64 `json:"rain" yaml:"rain"`
	Water    float64 `json:"water" yaml:"water"`
	Temp     float64 `json:"temp" yaml:"temp"`
	Humidity float64 `json:"humidity" yaml:"humidity"`
	Wind     float64 `json:"wind" yaml:"wind"`
}

func (r Reading) value(channel string) float64 {
	switch channel {
	case Rain:
		return r.Rain
	case Water:
		return r.Water
	case Temp:
		return r.Temp
	case Humidity:
		return r.Humidity
	default:
		return r.Wind
	}
}

// Store holds the most recent readings per channel, oldest first. It is safe
// for concurrent use.
type Store struct {
	mu       sync.RWMutex
	capacity int
	data     map[string][]float64
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		capacity: capacity,
		data:     make(map[string][]float64, len(Channels)),
	}
	for _, ch := range Channels {
		s.data[ch] = make([]float64, 0, capacity)
	}
	return s
}

func (s *Store) Capacity() int {
	return s.capacity
}

// Add appends r to every channel, dropping the oldest value of a full channel.
func (s *Store) Add(r Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range Channels {
		values := append(s.data[ch], r.value(ch))
		if len(values) > s.capacity {
			values = values[len(values)-s.capacity:]
		}
		s.data[ch] = values
	}
}

// Get returns a copy of the history of one channel.
func (s *Store) Get(channel string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// Snapshot returns a copy of every channel.
func (s *Store) Snapshot() map[string][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]float64, len(s.data))
	for ch, values := range s.data {
		cp := make([]float64, len(values))
		copy(cp, values)
		out[ch] = cp
	}
	return out
}
