package indicator

import "trading-signals/internal/model"

// SignalComponents packages a signal pair as the two signal components of a
// slot. Entry filters get the allow-open roles, exit filters the force-close
// roles. Values are 1 where the signal holds and 0 elsewhere.
func SignalComponents(slot model.SlotType, firstBar int, pair SignalPair) [2]model.Component {
	longType, shortType := model.AllowOpenLong, model.AllowOpenShort
	longName, shortName := "Is long entry allowed", "Is short entry allowed"
	if slot == model.CloseFilter {
		longType, shortType = model.ForceCloseLong, model.ForceCloseShort
		longName, shortName = "Close out long position", "Close out short position"
	}
	return [2]model.Component{
		{Name: longName, Type: longType, Chart: model.NoChart, FirstBar: firstBar, Value: flags(pair.Long)},
		{Name: shortName, Type: shortType, Chart: model.NoChart, FirstBar: firstBar, Value: flags(pair.Short)},
	}
}

func flags(b []bool) []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return out
}
