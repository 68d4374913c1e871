package outbox

import "errors"

var (
	errProcessorStopped = errors.New("outbox processor is not running")
	errProcessorLagging = errors.New("outbox processor is lagging behind")
)
