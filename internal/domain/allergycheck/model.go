package allergycheck

import "encoding/json"

// sentinelPollen is the provider's marker for "no measurement at this hour".
// It never leaves the sentinel split; downstream stages see nil instead.
const sentinelPollen = -9999

// Request captures the payload accepted by the allergy check endpoint.
// Symptom answers arrive as the literal strings "yes" or "no", the way the
// questionnaire form posts them.
type Request struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	PeriodType  string  `json:"periodType"`
	PeriodValue int     `json:"periodValue"`
	Diagnosed   string  `json:"diagnosed"`
	Fever       string  `json:"fever"`
	FacePain    string  `json:"facePain"`
	EyeItch     string  `json:"eyeItch"`
	Nasal       string  `json:"nasal"`
	Cough       string  `json:"cough"`
	Sneeze      string  `json:"sneeze"`
	Outdoor     string  `json:"outdoor"`
}

// Region identifies the administrative area enclosing the request point.
// The zero value means no boundary polygon contained the point.
type Region struct {
	City string
	Ward string
	Code string
}

// Found reports whether a boundary polygon was resolved.
func (r Region) Found() bool {
	return r.Code != ""
}

// RawRecord is one parsed row of the provider CSV, sentinel included.
type RawRecord struct {
	Date   string
	Pollen float64
}

// AnalysisPoint is a measured value with the sentinel rows dropped. This view
// feeds the narrative prompt and is never returned to the client.
type AnalysisPoint struct {
	Date   string  `json:"date"`
	Pollen float64 `json:"pollen"`
}

// SeriesPoint preserves the full timeline; Pollen is nil where the provider
// reported the sentinel. This view is the candidate for imputation and
// charting.
type SeriesPoint struct {
	Date   string   `json:"date"`
	Pollen *float64 `json:"pollen"`
}

// Result is the outcome of one pipeline run. When Region is not found only
// Message is populated and the remaining stages never ran.
type Result struct {
	Region   Region
	Analysis string
	Records  []SeriesPoint
	VegaSpec json.RawMessage
	Message  string
}

// Config wires runtime tunables for the pipeline.
type Config struct {
	Model        string
	Temperature  float32
	SystemPrompt string
	WindowDays   int
}

// periodRanges bounds the symptom duration value per unit.
var periodRanges = map[string][2]int{
	"day":   {1, 6},
	"week":  {1, 4},
	"month": {1, 12},
}

// periodLabels phrases the duration unit in Japanese for the prompt.
var periodLabels = map[string]string{
	"day":   "日",
	"week":  "週",
	"month": "月",
}
