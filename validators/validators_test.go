package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestValidate_ClubRegister(t *testing.T) {
	ok := ClubRegisterRequest{Email: "chess@example.com", ClubName: "Chess Club", Password: "password1"}
	assert.Empty(t, Validate(ok))

	bad := ClubRegisterRequest{Email: "nope", ClubName: "C", Password: "short"}
	errs := Validate(bad)
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "email", fields["Email"])
	assert.Equal(t, "min", fields["ClubName"])
	assert.Equal(t, "min", fields["Password"])
}

func TestValidate_ClubUpdate(t *testing.T) {
	tests := []struct {
		name  string
		req   ClubUpdateRequest
		valid bool
	}{
		{"empty update", ClubUpdateRequest{}, true},
		{"name and tags", ClubUpdateRequest{Name: ptr("Go Club 2"), Tags: []string{"golang", "systems"}}, true},
		{"symbols in name", ClubUpdateRequest{Name: ptr("Go-Club!")}, false},
		{"uppercase tag", ClubUpdateRequest{Tags: []string{"Golang"}}, false},
		{"tag too long", ClubUpdateRequest{Tags: []string{strings.Repeat("a", 21)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, len(Validate(tt.req)) == 0)
		})
	}
}

func TestValidatePageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query    string
		ok       bool
		wantPage int
		wantSize int
		wantSort string
	}{
		{"", true, 0, 30, "id"},
		{"?page=2&size=10&sortBy=name", true, 2, 10, "name"},
		{"?size=51", false, 0, 0, ""},
		{"?size=0", false, 0, 0, ""},
		{"?page=-1", false, 0, 0, ""},
		{"?page=abc", false, 0, 0, ""},
		{"?page=1000000", true, 1000000, 30, "id"},
		{"?page=1000001", false, 0, 0, ""},
		{"?page=922337203685477580", false, 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/clubs"+tt.query, nil)

			params, ok := ValidatePageParams(c)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				return
			}
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantSize, params.Size)
			assert.Equal(t, tt.wantSort, params.SortBy)
		})
	}
}

func TestValidateLoginRequest_BadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	_, ok := ValidateLoginRequest(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request payload")
}

func TestMustRegister(t *testing.T) {
	assert.Panics(t, func() { mustRegister("", matches(tagPattern)) })
	assert.NotPanics(t, func() { mustRegister("tag", matches(tagPattern)) })

	assert.NoError(t, validate.Var("chess", "tag"))
	assert.Error(t, validate.Var("Chess!", "tag"))
	assert.Error(t, validate.Var("Chess_Club", "clubname"))
}
