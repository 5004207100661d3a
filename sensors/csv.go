package sensors

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadCSV reads readings from a CSV with a header naming the channels. Column
// order is free; a missing column reads as zero.
func LoadCSV(r io.Reader) ([]Reading, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read sensor header: %w", err)
	}
	h := headerIndex(header)

	var readings []Reading
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sensor row %d: %w", line, err)
		}

		get := func(k string) (float64, error) {
			i, ok := h[k]
			if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
				return 0, nil
			}
			return strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		}

		var rd Reading
		fields := []struct {
			name string
			dst  *float64
		}{
			{Rain, &rd.Rain},
			{Water, &rd.Water},
			{Temp, &rd.Temp},
			{Humidity, &rd.Humidity},
			{Wind, &rd.Wind},
		}
		for _, f := range fields {
			v, err := get(f.name)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line, f.name, err)
			}
			*f.dst = v
		}
		readings = append(readings, rd)
	}
	return readings, nil
}

// Seed adds readings to s in order.
func (s *Store) Seed(readings []Reading) {
	for _, r := range readings {
		s.Add(r)
	}
}

func headerIndex(hdr []string) map[string]int {
	m := make(map[string]int, len(hdr))
	for i, k := range hdr {
		m[strings.ToLower(strings.TrimSpace(k))] = i
	}
	return m
}
