package searcher

import "math"

// puct = q + c*p*sqrt(N)/(1+n)
func puct(q, p float64, parentVisits, visits int, cPuct float64) float64 {
	return q + cPuct*p*math.Sqrt(float64(parentVisits))/(1+float64(visits))
}

// TemperatureSchedule switches from High to Low once Threshold moves have been played
type TemperatureSchedule struct {
	High      float64
	Low       float64
	Threshold int
}

func (s TemperatureSchedule) At(moveCount int) float64 {
	if moveCount < s.Threshold {
		return s.High
	}
	return s.Low
}
