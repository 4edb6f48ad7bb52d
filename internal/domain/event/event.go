package event

import (
	"time"
)

type Type string

const (
	// TypeInit is published once per scheduler Run, before the first frame is requested.
	TypeInit Type = "init"
	// TypeTick is published on every frame with the elapsed time since the previous one.
	TypeTick Type = "tick"
)

// Event is the payload delivered to frame subscribers.
// DT is only set on ticks and is expressed in seconds.
type Event struct {
	Type      Type      `json:"type"`
	DT        float64   `json:"dt"`
	Frame     uint64    `json:"frame"`
	Timestamp time.Time `json:"timestamp"`
}

func Init(now time.Time) Event {
	return Event{Type: TypeInit, Timestamp: now}
}

func Tick(frame uint64, dt float64, now time.Time) Event {
	return Event{
		Type:      TypeTick,
		DT:        dt,
		Frame:     frame,
		Timestamp: now,
	}
}
