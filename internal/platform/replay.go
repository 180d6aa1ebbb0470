package platform

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ReplayEvent is one scheduled platform event.
type ReplayEvent struct {
	Frame  int    `yaml:"frame"`
	Type   string `yaml:"type"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Replay is a scripted session for the headless platform.
type Replay struct {
	Display struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"display"`
	Events []ReplayEvent `yaml:"events"`
}

// LoadReplay loads a replay YAML file.
func LoadReplay(path string) (*Replay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	r, err := ParseReplay(raw)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", path, err)
	}
	return r, nil
}

// ParseReplay decodes and validates replay YAML. Events are ordered by
// frame, keeping file order within a frame.
func ParseReplay(raw []byte) (*Replay, error) {
	var r Replay
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	for i, e := range r.Events {
		if e.Frame < 0 {
			return nil, fmt.Errorf("event %d: negative frame %d", i, e.Frame)
		}
		if _, err := ParseEventType(e.Type); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	sort.SliceStable(r.Events, func(i, j int) bool {
		return r.Events[i].Frame < r.Events[j].Frame
	})
	return &r, nil
}
