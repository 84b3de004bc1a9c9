package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	t.Parallel()
	var req model.IssueRequest
	require.NoError(t, json.Unmarshal([]byte(`{"bookId":3,"dueDate":"2024-05-17"}`), &req))
	require.NotNil(t, req.DueDate)
	require.Equal(t, "2024-05-17", req.DueDate.String())

	out, err := json.Marshal(model.Transaction{
		ID:          1,
		MemberID:    2,
		BookID:      3,
		BookStatus:  model.BookStatusIssued,
		DateOfIssue: model.NewDate(time.Date(2024, 5, 3, 15, 4, 5, 0, time.UTC)),
		DueDate:     *req.DueDate,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"memberId":2,"bookId":3,"bookStatus":"issued","dateOfIssue":"2024-05-03","dueDate":"2024-05-17"}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"dueDate":"17/05/2024"}`), &req))
}

func TestDate_Scan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     any
		want    string
		wantErr bool
	}{
		{name: "time", src: time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC), want: "2024-01-02"},
		{name: "string", src: "2024-01-02", want: "2024-01-02"},
		{name: "bytes with time part", src: []byte("2024-01-02T00:00:00Z"), want: "2024-01-02"},
		{name: "err. int", src: 5, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var d model.Date
			err := d.Scan(tt.src)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, d.String())
		})
	}
}

func TestMember_HidesSecrets(t *testing.T) {
	t.Parallel()
	token := "refresh"
	out, err := json.Marshal(model.Member{ID: 1, Name: "Ann", Password: "hash", RefreshToken: &token})
	require.NoError(t, err)
	require.NotContains(t, string(out), "hash")
	require.NotContains(t, string(out), "refresh")
}
