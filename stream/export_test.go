package stream

var (
	ItemsCounter  = itemsCounter
	BufferedGauge = bufferedGauge
)
