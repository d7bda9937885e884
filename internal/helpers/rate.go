package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// OnceAMinute throttles repetitive warnings to one per minute.
var OnceAMinute = onceAMinute()

func onceAMinute() *rate.Sometimes {
	return &rate.Sometimes{
		First:    1,
		Interval: time.Minute,
	}
}
