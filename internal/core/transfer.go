package core

import (
	"encoding/json"
	"fmt"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// ExportVersion is the document version written by Export.
const ExportVersion = "1.0.0"

// ExportDocument is the interchange format for backup and restore. Every
// persisted collection plus the profile rides in one JSON document.
type ExportDocument struct {
	Version    string               `json:"version"`
	ExportedAt string               `json:"exportedAt"`
	User       *models.Profile      `json:"user"`
	Tasks      []models.Task        `json:"tasks"`
	Activities []models.ActivityLog `json:"activities"`
	Users      []string             `json:"users"`
}

// Transfer round-trips the whole workspace through ExportDocument. Import is
// destructive: it fully replaces the persisted collections, no merging.
type Transfer struct {
	tasks      TaskStore
	activities ActivityStore
	users      UserStore
	clock      Clock
}

// NewTransfer creates a Transfer over the given stores.
func NewTransfer(tasks TaskStore, activities ActivityStore, users UserStore, clock Clock) *Transfer {
	return &Transfer{
		tasks:      tasks,
		activities: activities,
		users:      users,
		clock:      clock,
	}
}

// Export snapshots every collection into a document.
func (t *Transfer) Export() ExportDocument {
	doc := ExportDocument{
		Version:    ExportVersion,
		ExportedAt: models.Timestamp(t.clock.Now()),
		User:       t.users.CurrentUser(),
		Tasks:      t.tasks.GetAll(),
		Activities: t.activities.GetAll(),
		Users:      t.users.AllUsers(),
	}
	if doc.Tasks == nil {
		doc.Tasks = []models.Task{}
	}
	if doc.Activities == nil {
		doc.Activities = []models.ActivityLog{}
	}
	if doc.Users == nil {
		doc.Users = []string{}
	}
	return doc
}

// ExportJSON serializes the export document with indentation, matching the
// download format.
func (t *Transfer) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(t.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// rawDocument mirrors ExportDocument with unparsed values so required keys
// can be checked before anything is written.
type rawDocument struct {
	Version    json.RawMessage `json:"version"`
	Tasks      json.RawMessage `json:"tasks"`
	Activities json.RawMessage `json:"activities"`
}

// Import parses and validates data, then replaces the persisted collections
// with its contents. A FormatError means nothing was touched; this is the
// one failure that is surfaced to the user rather than swallowed.
func (t *Transfer) Import(data []byte) error {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return &FormatError{Msg: "invalid import document", Err: err}
	}
	if isMissing(raw.Version) {
		return &FormatError{Msg: "import document missing version"}
	}
	if isMissing(raw.Tasks) {
		return &FormatError{Msg: "import document missing tasks"}
	}
	if isMissing(raw.Activities) {
		return &FormatError{Msg: "import document missing activities"}
	}

	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return &FormatError{Msg: "invalid import document", Err: err}
	}

	if doc.User != nil {
		if err := t.users.SetCurrentUser(*doc.User); err != nil {
			return fmt.Errorf("importing profile: %w", err)
		}
	}
	if err := t.tasks.ReplaceAll(doc.Tasks); err != nil {
		return fmt.Errorf("importing tasks: %w", err)
	}
	if err := t.activities.ReplaceAll(doc.Activities); err != nil {
		return fmt.Errorf("importing activities: %w", err)
	}
	if doc.Users != nil {
		if err := t.users.ReplaceAll(doc.Users); err != nil {
			return fmt.Errorf("importing user cache: %w", err)
		}
	}
	return nil
}

func isMissing(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
