package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallChangeTriggerRejectsBadIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		channel string
	}{
		{"quoted table", `note_app"; DROP TABLE x; --`, "note_updates"},
		{"table with space", "note app", "note_updates"},
		{"channel with dash", "note_app", "note-updates"},
		{"empty channel", "note_app", ""},
		{"leading digit", "1note", "note_updates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation happens before the database is touched.
			err := InstallChangeTrigger(nil, tt.table, tt.channel)
			assert.Error(t, err)
		})
	}
}
