package through

var (
	Resolve          = resolve
	ActiveGauge      = activeGauge
	DestroyedCounter = destroyedCounter
)
