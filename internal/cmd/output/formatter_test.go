package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

func sampleResult() *reconciler.Result {
	return &reconciler.Result{
		RunID: "run-1",
		Mode:  reconciler.ModeReconcile,
		Users: []*reconciler.UserResult{
			{User: "alice@example.com", GroupTitle: "Resources", GroupCreated: true, Inserted: 2},
			{User: "bob@example.com", GroupTitle: "Resources", Members: 2, Updated: 1, Failed: 1, Errors: []error{errors.New("boom")}},
			{User: "carol@example.com", Aborted: true, Failed: 1},
		},
	}
}

func TestReportTable(t *testing.T) {
	data := Report{sampleResult()}.Table()
	require.Len(t, data.Rows, 4)
	assert.Equal(t, "User", data.Headers[0])
	assert.Equal(t, "Resources (created)", data.Rows[0][1])
	assert.Equal(t, "partial", data.Rows[1][8])
	assert.Equal(t, "aborted", data.Rows[2][8])
	assert.Equal(t, []string{"TOTAL (3)", "", "", "2", "1", "0", "0", "2", "reconcile"}, data.Rows[3])
}

func TestFormatters(t *testing.T) {
	report := Report{sampleResult()}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, report))
	assert.Contains(t, buf.String(), "alice@example.com")
	assert.Contains(t, buf.String(), "TOTAL (3)")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, report.Result))
	assert.Contains(t, buf.String(), `"run_id": "run-1"`)

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, report.Result))
	assert.Contains(t, buf.String(), "run_id: run-1")
	assert.Contains(t, buf.String(), "user: bob@example.com")
}

func TestContactListTable(t *testing.T) {
	data := ContactList{{
		Name:   &contacts.Name{Full: "Room A", Family: "(Resource)"},
		Emails: []contacts.Email{{Address: "room-a@resource.example.com"}},
		Note:   "4th floor",
	}}.Table()
	assert.Equal(t, []string{"Name", "Email", "Family Name", "Note"}, data.Headers)
	assert.Equal(t, []string{"Room A", "room-a@resource.example.com", "(Resource)", "4th floor"}, data.Rows[0])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("vcard")
	assert.Error(t, err)

	f, err = ParseFormat("vcard", FormatTable, FormatVCard)
	require.NoError(t, err)
	assert.Equal(t, FormatVCard, f)

	assert.Equal(t, FormatYAML, DetectFormat("yaml"))
}
