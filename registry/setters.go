package registry

import "pulp-go/param"

// Typed setters. Each goes through Set and so persists and notifies.

func (r *Registry) SetAudio(v param.Audio) Result                       { return r.Set(&v) }
func (r *Registry) SetCharger(v param.Charger) Result                   { return r.Set(&v) }
func (r *Registry) SetName(v param.Name) Result                         { return r.Set(&v) }
func (r *Registry) SetFeatures(v param.Features) Result                 { return r.Set(&v) }
func (r *Registry) SetLoad(v param.Load) Result                         { return r.Set(&v) }
func (r *Registry) SetMaintainer(v param.Maintainer) Result             { return r.Set(&v) }
func (r *Registry) SetPosition(v param.Position) Result                 { return r.Set(&v) }
func (r *Registry) SetSerialNumber(v param.SerialNumber) Result         { return r.Set(&v) }
func (r *Registry) SetUniqueIdentifier(v param.UniqueIdentifier) Result { return r.Set(&v) }
func (r *Registry) SetUser(v param.User) Result                         { return r.Set(&v) }
func (r *Registry) SetVisual(v param.Visual) Result                     { return r.Set(&v) }

// Typed getters return the zero value alongside a failing Result.

func (r *Registry) Audio() (param.Audio, Result) {
	rec, res := r.Get(param.KindAudioFeedback)
	if !res.OK() {
		return param.Audio{}, res
	}
	return *rec.(*param.Audio), Success
}

func (r *Registry) Visual() (param.Visual, Result) {
	rec, res := r.Get(param.KindVisualFeedback)
	if !res.OK() {
		return param.Visual{}, res
	}
	return *rec.(*param.Visual), Success
}

func (r *Registry) Features() (param.Features, Result) {
	rec, res := r.Get(param.KindFeatures)
	if !res.OK() {
		return param.Features{}, res
	}
	return *rec.(*param.Features), Success
}

func (r *Registry) UniqueIdentifier() (param.UID, Result) {
	rec, res := r.Get(param.KindUniqueIdentifier)
	if !res.OK() {
		return param.UID{}, res
	}
	return rec.(*param.UniqueIdentifier).Value, Success
}
