package flow

var (
	StagesGauge    = stagesGauge
	DroppedCounter = droppedCounter
)
