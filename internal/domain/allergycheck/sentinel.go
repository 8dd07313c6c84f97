package allergycheck

// splitSeries classifies every record against the sentinel and derives the
// two views of the series: the analysis view with sentinel rows excluded and
// the display view with the full timeline and nil at sentinel positions.
// Pure transform, record order preserved.
func splitSeries(records []RawRecord) ([]AnalysisPoint, []SeriesPoint) {
	analysis := make([]AnalysisPoint, 0, len(records))
	display := make([]SeriesPoint, 0, len(records))

	for _, rec := range records {
		if rec.Pollen == sentinelPollen {
			display = append(display, SeriesPoint{Date: rec.Date})
			continue
		}
		value := rec.Pollen
		analysis = append(analysis, AnalysisPoint{Date: rec.Date, Pollen: value})
		display = append(display, SeriesPoint{Date: rec.Date, Pollen: &value})
	}
	return analysis, display
}

// hasGaps reports whether any display point is missing a measurement.
func hasGaps(series []SeriesPoint) bool {
	for _, pt := range series {
		if pt.Pollen == nil {
			return true
		}
	}
	return false
}
