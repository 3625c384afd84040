// Package types holds the payloads carried on the bus between the params
// service and its clients.
package types

import "pulp-go/param"

// ---- Requests ----

// ParamSet carries field assignments for params/set/<kind>. Values use the
// same text forms as the console.
type ParamSet struct {
	Fields map[string]string `json:"fields"`
}

// ---- Replies ----

// Field is one name/value pair in wire order.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParamReply answers params/get and params/set, and is the retained payload
// of params/value/<kind>.
type ParamReply struct {
	OK     bool         `json:"ok"`
	Kind   string       `json:"kind"`
	Record param.Record `json:"-"`
	Fields []Field      `json:"fields"`
}

// Generic replies
type OKReply struct {
	OK bool `json:"ok"`
}
type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// SnapshotReply answers params/dump with the in-memory primary snapshot.
type SnapshotReply struct {
	OK    bool   `json:"ok"`
	Bytes []byte `json:"bytes"`
}

// ---- Retained state ----

// ParamState is published retained on params/state.
type ParamState struct {
	State string `json:"state"`
	Ready bool   `json:"ready"`
	// Recovered is set when the last initialize had to restore or format.
	Recovered bool `json:"recovered"`
}

// ---- Config ----

// ParamsConfig is the config/params payload.
type ParamsConfig struct {
	// AutoBackup refreshes the backup after a clean start and after formats.
	AutoBackup bool `json:"auto_backup"`
	// RequestTimeoutMs bounds console round trips.
	RequestTimeoutMs int `json:"request_timeout_ms"`
}

// ConsoleConfig is the config/console payload.
type ConsoleConfig struct {
	Prompt string `json:"prompt"`
	Echo   bool   `json:"echo"`
}

// NewParamReply snapshots rec into a reply.
func NewParamReply(rec param.Record) ParamReply {
	r := ParamReply{OK: true, Kind: rec.Kind().String(), Record: rec}
	rec.VisitFields(func(name, value string) {
		r.Fields = append(r.Fields, Field{Name: name, Value: value})
	})
	return r
}
