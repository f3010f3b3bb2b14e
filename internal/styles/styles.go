// Package styles classifies a learner's preferred content style from
// observed per-format engagement, using the VARK and Kolb frameworks.
package styles

import (
	"sort"

	"github.com/example/learnengine/pkg/models"
)

// VARK style labels
const (
	Visual      = "visual"
	Auditory    = "auditory"
	ReadWrite   = "read-write"
	Kinesthetic = "kinesthetic"
)

// varkByFormat maps content formats to the VARK dimension they exercise.
// Unmapped formats fall back to kinesthetic (learning by doing).
var varkByFormat = map[string]string{
	"video":       Visual,
	"diagram":     Visual,
	"audio":       Auditory,
	"podcast":     Auditory,
	"reading":     ReadWrite,
	"article":     ReadWrite,
	"flashcards":  ReadWrite,
	"interactive": Kinesthetic,
	"quiz":        Kinesthetic,
	"simulation":  Kinesthetic,
}

// Profiler accumulates engagement evidence per content format
type Profiler struct {
	engagement map[string]*models.FormatEngagement
}

// NewProfiler creates an empty profiler
func NewProfiler() *Profiler {
	return &Profiler{engagement: make(map[string]*models.FormatEngagement)}
}

// RecordEngagement adds one observed engagement reward in [0,1] for a format
func (p *Profiler) RecordEngagement(format string, reward float64) {
	if reward < 0 {
		reward = 0
	}
	if reward > 1 {
		reward = 1
	}
	e, ok := p.engagement[format]
	if !ok {
		e = &models.FormatEngagement{Format: format}
		p.engagement[format] = e
	}
	e.Exposures++
	e.TotalReward += reward
}

// Distribution returns the normalized VARK weight of each dimension. With no
// evidence every dimension weighs 0.25.
func (p *Profiler) Distribution() map[string]float64 {
	dims := map[string]float64{Visual: 0, Auditory: 0, ReadWrite: 0, Kinesthetic: 0}
	total := 0.0
	for format, e := range p.engagement {
		dim, ok := varkByFormat[format]
		if !ok {
			dim = Kinesthetic
		}
		dims[dim] += e.TotalReward
		total += e.TotalReward
	}
	if total == 0 {
		return map[string]float64{Visual: 0.25, Auditory: 0.25, ReadWrite: 0.25, Kinesthetic: 0.25}
	}
	for dim := range dims {
		dims[dim] /= total
	}
	return dims
}

// VARK returns the dominant VARK style
func (p *Profiler) VARK() string {
	dist := p.Distribution()
	styles := []string{Visual, Auditory, ReadWrite, Kinesthetic}
	sort.SliceStable(styles, func(i, j int) bool {
		return dist[styles[i]] > dist[styles[j]]
	})
	return styles[0]
}

// Kolb maps the VARK distribution onto Kolb's two axes. Doing (kinesthetic)
// versus watching (visual+auditory) sets the processing axis; abstract
// (read-write) versus concrete (everything else) sets the perception axis.
func (p *Profiler) Kolb() string {
	dist := p.Distribution()
	active := dist[Kinesthetic] > dist[Visual]+dist[Auditory]
	abstract := dist[ReadWrite] >= 0.25

	switch {
	case active && abstract:
		return "converging"
	case active && !abstract:
		return "accommodating"
	case !active && abstract:
		return "assimilating"
	default:
		return "diverging"
	}
}

// PreferredFormats returns formats ordered by mean engagement reward,
// best first; formats never seen are omitted
func (p *Profiler) PreferredFormats() []string {
	type scored struct {
		format string
		mean   float64
	}
	var ranked []scored
	for f, e := range p.engagement {
		if e.Exposures == 0 {
			continue
		}
		ranked = append(ranked, scored{f, e.TotalReward / float64(e.Exposures)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].mean != ranked[j].mean {
			return ranked[i].mean > ranked[j].mean
		}
		return ranked[i].format < ranked[j].format
	})
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.format
	}
	return out
}

// Export snapshots engagement counters for persistence
func (p *Profiler) Export() map[string]*models.FormatEngagement {
	out := make(map[string]*models.FormatEngagement, len(p.engagement))
	for f, e := range p.engagement {
		copied := *e
		out[f] = &copied
	}
	return out
}

// Restore replaces the profiler's counters with persisted ones
func (p *Profiler) Restore(engagement map[string]*models.FormatEngagement) {
	p.engagement = make(map[string]*models.FormatEngagement, len(engagement))
	for f, e := range engagement {
		if e == nil {
			continue
		}
		copied := *e
		p.engagement[f] = &copied
	}
}
