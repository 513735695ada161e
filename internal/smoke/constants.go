package smoke

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	ProgressInterval     = 1 * time.Second
	PercentageMultiplier = 100
)
