package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"carpool-backend/internal/domain"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err      error
		status   int
		wantKind string
	}{
		{domain.ValidationError{Field: "seats", Msg: "must be at least 1"}, 400, "validation"},
		{domain.NotFoundError{Resource: "ride", ID: 7}, 404, "not_found"},
		{domain.AuthorizationError{Msg: "nope"}, 403, "authorization"},
		{domain.InvalidStateError{Resource: "booking", Status: "rejected", Msg: "terminal"}, 409, "invalid_state"},
		{domain.CapacityError{Requested: 3, Available: 1}, 409, "capacity"},
		{domain.ConflictError{Msg: "duplicate"}, 409, "conflict"},
		{errors.New("boom"), 500, "internal"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, tc.err)

		if w.Code != tc.status {
			t.Fatalf("%T: status = %d, want %d", tc.err, w.Code, tc.status)
		}
		var body struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%T: bad body: %v", tc.err, err)
		}
		if body.Kind != tc.wantKind {
			t.Fatalf("%T: kind = %q, want %q", tc.err, body.Kind, tc.wantKind)
		}
	}
}
