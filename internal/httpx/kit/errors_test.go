package kit

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"projectboard/internal/store"
)

func TestStoreErrorClassification(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{fmt.Errorf("%w: Apollo", store.ErrNotFound), http.StatusNotFound, "Project not found"},
		{fmt.Errorf("%w: Apollo", store.ErrDuplicate), http.StatusConflict, "Project name already exists"},
		{fmt.Errorf("%w: nope", store.ErrUnknownField), http.StatusBadRequest, "unknown field: nope"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "query failed"},
	}
	for _, tc := range cases {
		err := StoreError(tc.err, "query failed")
		var ae *APIError
		if !errors.As(err, &ae) {
			t.Fatalf("StoreError(%v) is not an APIError: %v", tc.err, err)
		}
		if ae.HTTPStatus != tc.wantStatus {
			t.Errorf("StoreError(%v) status = %d, want %d", tc.err, ae.HTTPStatus, tc.wantStatus)
		}
		if ae.Message != tc.wantMsg {
			t.Errorf("StoreError(%v) message = %q, want %q", tc.err, ae.Message, tc.wantMsg)
		}
	}
}
