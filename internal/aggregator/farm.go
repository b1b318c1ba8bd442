package aggregator

// farmSegments are a single match's early/mid/late gold-per-minute rates.
type farmSegments struct {
	earlyGPM float64
	midGPM   float64
	lateGPM  float64
}

// farmProfile derives per-segment gold rates from a cumulative per-minute
// net-worth series (index 0 = minute 0). Segment boundaries sit at
// minutes 10 and 25 and clamp to the series length for short games.
// ok is false when the series is too short to yield any rate; such
// matches are excluded from the farm-profile denominator.
func farmProfile(goldT []int) (seg farmSegments, ok bool) {
	if len(goldT) < 2 {
		return farmSegments{}, false
	}
	mins := len(goldT) - 1

	at := func(minute int) int {
		if minute > mins {
			minute = mins
		}
		return goldT[minute]
	}
	gained := func(from, to int) float64 {
		d := at(to) - at(from)
		if d < 0 {
			return 0
		}
		return float64(d)
	}

	early := gained(0, 10)
	mid := gained(10, 25)
	late := gained(25, mins)

	floor1 := func(n int) float64 {
		if n < 1 {
			return 1
		}
		return float64(n)
	}

	earlyLen := 10
	if mins < earlyLen {
		earlyLen = mins
	}
	midLen := mins - 10
	if midLen < 0 {
		midLen = 0
	}
	if midLen > 15 {
		midLen = 15
	}
	lateLen := mins - 25
	if lateLen < 0 {
		lateLen = 0
	}

	seg = farmSegments{
		earlyGPM: early / floor1(earlyLen),
		midGPM:   mid / floor1(midLen),
		lateGPM:  late / floor1(lateLen),
	}
	return seg, true
}
