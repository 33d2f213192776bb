package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewApplication_DefaultsToPending(t *testing.T) {
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	s := Submission{FullName: "Asha Rao", Email: "asha@example.com", Skills: []string{"Go"}}

	app := NewApplication("INT-2026-0001", s, at)

	assert.Equal(t, "INT-2026-0001", app.ApplicationID)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, at, app.SubmittedAt)
	assert.Equal(t, []string{"Go"}, app.Skills)

	s.Skills[0] = "Rust"
	assert.Equal(t, "Go", app.Skills[0])
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestStats_Add(t *testing.T) {
	var st Stats
	st.Add(StatusPending, 3)
	st.Add(StatusAccepted, 2)
	st.Add(StatusRejected, 1)

	assert.Equal(t, Stats{Total: 6, Pending: 3, Accepted: 2, Rejected: 1}, st)
}

func TestListFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, ListFilter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, ListFilter{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, ListFilter{Page: 0, Limit: 10}.Offset())
}

func TestNewPage(t *testing.T) {
	p := NewPage(nil, 21, ListFilter{Page: 2, Limit: 10})

	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, int64(21), p.Total)
	assert.NotNil(t, p.Applications)
	assert.Empty(t, p.Applications)

	assert.Equal(t, 0, NewPage(nil, 0, ListFilter{Page: 1, Limit: 10}).TotalPages)
}
