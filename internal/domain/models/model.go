package models

import "reflect"

// Model is a fitted regression mapping model inputs to a probability signal.
type Model interface {
	Species() string
	Predict(x []float64) float64
}

// ModelResult is either a fitted model or the absence of one. Absence is a
// normal state that selects the heuristic path.
type ModelResult struct {
	model Model
}

// ModelFound wraps a fitted model. A nil model, including a typed nil pointer,
// yields ModelAbsent.
func ModelFound(m Model) ModelResult {
	if m == nil {
		return ModelAbsent()
	}
	if v := reflect.ValueOf(m); v.Kind() == reflect.Ptr && v.IsNil() {
		return ModelAbsent()
	}
	return ModelResult{model: m}
}

// ModelAbsent reports that no model is available.
func ModelAbsent() ModelResult { return ModelResult{} }

// Get returns the model and whether it is present.
func (r ModelResult) Get() (Model, bool) { return r.model, r.model != nil }

// Present reports whether a model is available.
func (r ModelResult) Present() bool { return r.model != nil }
