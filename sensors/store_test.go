package sensors

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreKeepsMostRecent(t *testing.T) {
	s := NewStore(0)
	require.Equal(t, DefaultCapacity, s.Capacity())

	for i := 1; i <= 7; i++ {
		v := float64(i)
		s.Add(Reading{Rain: v, Water: v * 10, Temp: 30, Humidity: 80, Wind: v / 2})
	}

	rain, err := s.Get(Rain)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, rain)

	water, err := s.Get(Water)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 40, 50, 60, 70}, water)

	snap := s.Snapshot()
	assert.Len(t, snap, len(Channels))
	assert.Equal(t, []float64{30, 30, 30, 30, 30}, snap[Temp])
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore(3)
	s.Add(Reading{Rain: 1})

	rain, _ := s.Get(Rain)
	rain[0] = 99
	snap := s.Snapshot()
	snap[Rain][0] = 42

	again, _ := s.Get(Rain)
	assert.Equal(t, []float64{1}, again)
}

func TestStoreUnknownChannel(t *testing.T) {
	_, err := NewStore(5).Get("pressure")
	assert.ErrorIs(t, err, ErrUnknownChannel)
}

func TestStoreEmptyChannel(t *testing.T) {
	wind, err := NewStore(5).Get(Wind)
	require.NoError(t, err)
	assert.NotNil(t, wind)
	assert.Empty(t, wind)
}

func TestStoreConcurrentAdd(t *testing.T) {
	s := NewStore(4)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			s.Add(Reading{Rain: v})
			_, _ = s.Get(Rain)
		}(float64(i))
	}
	wg.Wait()

	rain, _ := s.Get(Rain)
	assert.Len(t, rain, 4)
}

func TestLoadCSV(t *testing.T) {
	data := "wind, Rain ,water,temp,humidity\n" +
		"3.5,12,40,31,88\n" +
		"4,0,41,,90\n"

	readings, err := LoadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, Reading{Rain: 12, Water: 40, Temp: 31, Humidity: 88, Wind: 3.5}, readings[0])
	assert.Equal(t, Reading{Rain: 0, Water: 41, Temp: 0, Humidity: 90, Wind: 4}, readings[1])

	s := NewStore(5)
	s.Seed(readings)
	humidity, _ := s.Get(Humidity)
	assert.Equal(t, []float64{88, 90}, humidity)
}

func TestLoadCSVRejectsBadNumber(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("rain,water\nheavy,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2 column rain")

	_, err = LoadCSV(strings.NewReader(""))
	assert.Error(t, err)
}
