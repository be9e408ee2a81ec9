package models

import "strings"

// AllSentinel is the "no filter" value used by HTML selects and CLI flags.
// It never leaves the parse boundary.
const AllSentinel = "all"

// StageFilter is either unfiltered or StageEquals(stage).
type StageFilter struct {
	stage Stage
	set   bool
}

// AnyStage matches every stage.
func AnyStage() StageFilter { return StageFilter{} }

// StageEquals matches a single stage.
func StageEquals(s Stage) StageFilter { return StageFilter{stage: s, set: true} }

// Stage returns the filtered stage and whether filtering is active.
func (f StageFilter) Stage() (Stage, bool) { return f.stage, f.set }

// Param is the query value, nil when unfiltered.
func (f StageFilter) Param() *string {
	if !f.set {
		return nil
	}
	v := string(f.stage)
	return &v
}

// FormValue is the select value, "all" when unfiltered.
func (f StageFilter) FormValue() string {
	if !f.set {
		return AllSentinel
	}
	return string(f.stage)
}

// ParseStageFilter maps a form value to a filter. Blank, "all" and unknown
// stages leave the list unfiltered.
func ParseStageFilter(v string) StageFilter {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, AllSentinel) {
		return AnyStage()
	}
	stage, err := ParseStage(v)
	if err != nil {
		return AnyStage()
	}
	return StageEquals(stage)
}

// SourceFilter is either unfiltered or SourceEquals(source).
type SourceFilter struct {
	source string
	set    bool
}

// AnySource matches every source.
func AnySource() SourceFilter { return SourceFilter{} }

// SourceEquals matches a single source.
func SourceEquals(s string) SourceFilter { return SourceFilter{source: s, set: true} }

func (f SourceFilter) Source() (string, bool) { return f.source, f.set }

// Param is the query value, nil when unfiltered.
func (f SourceFilter) Param() *string {
	if !f.set {
		return nil
	}
	v := f.source
	return &v
}

// FormValue is the select value, "all" when unfiltered.
func (f SourceFilter) FormValue() string {
	if !f.set {
		return AllSentinel
	}
	return f.source
}

// ParseSourceFilter maps a form value to a filter.
func ParseSourceFilter(v string) SourceFilter {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, AllSentinel) {
		return AnySource()
	}
	return SourceEquals(v)
}

// LeadFilter is the list view's filter state.
type LeadFilter struct {
	Search string
	Stage  StageFilter
	Source SourceFilter
}

// ParseLeadFilter builds a filter from raw form or query values.
func ParseLeadFilter(search, stage, source string) LeadFilter {
	return LeadFilter{
		Search: search,
		Stage:  ParseStageFilter(stage),
		Source: ParseSourceFilter(source),
	}
}
