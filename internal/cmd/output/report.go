package output

import (
	"strconv"

	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/reconciler"
)

// Report wraps a run result for rendering.
type Report struct {
	*reconciler.Result
}

// Table implements Tabler: one row per user plus a total row.
func (r Report) Table() Data {
	data := Data{
		Headers: Headers("user", "group", "members", "inserted", "updated", "deleted", "unmatched", "failed", "status"),
		ColumnAlignment: []Align{
			AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft,
		},
	}
	if r.Result == nil {
		return data
	}

	for _, u := range r.Users {
		data.Rows = append(data.Rows, []string{
			u.User,
			groupCell(u),
			strconv.Itoa(u.Members),
			strconv.Itoa(u.Inserted),
			strconv.Itoa(u.Updated),
			strconv.Itoa(u.Deleted),
			strconv.Itoa(u.Unmatched),
			strconv.Itoa(u.Failed),
			status(u),
		})
	}

	t := r.Totals()
	data.Rows = append(data.Rows, []string{
		"TOTAL (" + strconv.Itoa(t.Users) + ")", "", "",
		strconv.Itoa(t.Inserted),
		strconv.Itoa(t.Updated),
		strconv.Itoa(t.Deleted),
		strconv.Itoa(t.Unmatched),
		strconv.Itoa(t.Failed),
		string(r.Mode),
	})
	return data
}

func groupCell(u *reconciler.UserResult) string {
	switch {
	case u.GroupCreated:
		return u.GroupTitle + " (created)"
	case u.GroupDeleted:
		return u.GroupTitle + " (deleted)"
	default:
		return u.GroupTitle
	}
}

func status(u *reconciler.UserResult) string {
	switch {
	case u.Aborted:
		return "aborted"
	case u.Failed > 0:
		return "partial"
	default:
		return "ok"
	}
}

// ContactList renders contacts as a table.
type ContactList []contacts.Contact

// Table implements Tabler.
func (l ContactList) Table() Data {
	data := Data{Headers: Headers("name", "email", "family_name", "note")}
	for _, c := range l {
		var email, family string
		if len(c.Emails) > 0 {
			email = c.Emails[0].Address
		}
		if c.Name != nil {
			family = c.Name.Family
		}
		data.Rows = append(data.Rows, []string{c.DisplayName(), email, family, c.Note})
	}
	return data
}
