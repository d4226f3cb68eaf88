// Package ctlog loads a Certificate Transparency log list and exposes a
// read-only registry keyed by log ID.
package ctlog

import (
	"crypto/sha256"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ChromeStatus is the Chrome CT policy state of a log, as carried by the
// legacy all_logs_list.json schema's single-key `state` object.
type ChromeStatus string

const (
	StatusUnknown      ChromeStatus = "unknown"
	StatusPending      ChromeStatus = "pending"
	StatusQualified    ChromeStatus = "qualified"
	StatusUsable       ChromeStatus = "usable"
	StatusReadOnly     ChromeStatus = "readonly"
	StatusRetired      ChromeStatus = "retired"
	StatusRejected     ChromeStatus = "rejected"
	StatusDisqualified ChromeStatus = "disqualified"
)

// Log is one CT log as known to the registry.
type Log struct {
	LogID        LogID
	Description  string
	Key          []byte // DER SubjectPublicKeyInfo
	MMDSeconds   uint32
	OperatorName string
	Status       ChromeStatus
}

// Registry maps a log ID to its Log record. Built once at startup and
// shared read-only thereafter (spec invariant: no mutation after load).
type Registry struct {
	byID map[LogID]*Log
}

// Lookup returns the log for id, or (nil, false) if unknown.
func (r *Registry) Lookup(id LogID) (*Log, bool) {
	l, ok := r.byID[id]
	return l, ok
}

// Len reports how many logs the registry holds.
func (r *Registry) Len() int {
	return len(r.byID)
}

// wire schema ----------------------------------------------------------

type wireList struct {
	Operators []wireOperator `json:"operators"`
	Logs      []wireLog      `json:"logs"`
}

type wireOperator struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

type wireLog struct {
	Description string                     `json:"description"`
	LogID       string                     `json:"log_id"`
	Key         string                     `json:"key"`
	MMD         uint32                     `json:"mmd"`
	State       map[string]json.RawMessage `json:"state"`
	OperatedBy  []int                      `json:"operated_by"`
}

// ParseList decodes a log-list JSON document and builds a Registry. A log
// whose declared log_id does not equal SHA256(key) is dropped with a
// warning rather than failing the whole load, so one bad entry can't take
// down the rest of the list.
func ParseList(data []byte) (*Registry, error) {
	var wl wireList
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("ctlog: decode log list: %w", err)
	}

	operatorNames := make(map[int]string, len(wl.Operators))
	for _, op := range wl.Operators {
		operatorNames[op.ID] = op.Name
	}

	reg := &Registry{byID: make(map[LogID]*Log, len(wl.Logs))}
	for _, wlog := range wl.Logs {
		key, err := base64.StdEncoding.DecodeString(wlog.Key)
		if err != nil {
			slog.Warn("ctlog: skipping log with unparseable key", "description", wlog.Description, "error", err)
			continue
		}

		declaredID, err := ParseLogID(wlog.LogID)
		if err != nil {
			slog.Warn("ctlog: skipping log with unparseable log_id", "description", wlog.Description, "error", err)
			continue
		}

		computedID := LogID(sha256.Sum256(key))
		if computedID != declaredID {
			slog.Warn("ctlog: skipping log with log_id mismatch", "description", wlog.Description)
			continue
		}

		var operator string
		for _, opID := range wlog.OperatedBy {
			if name, ok := operatorNames[opID]; ok {
				operator = name
				break
			}
		}

		reg.byID[declaredID] = &Log{
			LogID:        declaredID,
			Description:  wlog.Description,
			Key:          key,
			MMDSeconds:   wlog.MMD,
			OperatorName: operator,
			Status:       statusFromState(wlog.State),
		}
	}

	return reg, nil
}

func statusFromState(state map[string]json.RawMessage) ChromeStatus {
	for key := range state {
		switch ChromeStatus(key) {
		case StatusPending, StatusQualified, StatusUsable, StatusReadOnly,
			StatusRetired, StatusRejected, StatusDisqualified:
			return ChromeStatus(key)
		}
	}
	return StatusUnknown
}

//go:embed data/really_all_logs.json
var bundledList []byte

// Bundled returns the embedded default log list, dated 2020-04-05.
func Bundled() []byte {
	return bundledList
}
