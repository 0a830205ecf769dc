package loadgen

// HTTP status code constants.
const (
	statusOK         = 200
	statusBadRequest = 400
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	percentageMultiplier = 100
)
