package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Page
		errMsg   string
	}{
		{name: "defaults", query: "", expected: Page{Offset: 0, Limit: DefaultPageLimit}},
		{name: "second page", query: "offset=50&limit=50", expected: Page{Offset: 50, Limit: 50}},
		{name: "largest page", query: "limit=100", expected: Page{Offset: 0, Limit: MaxPageLimit}},
		{name: "empty offset", query: "offset=", errMsg: "offset must be a non-negative integer"},
		{name: "negative offset", query: "offset=-5", errMsg: "offset must be a non-negative integer"},
		{name: "limit above bound", query: "limit=1000", errMsg: "limit must be between 1 and 100"},
		{name: "zero limit", query: "limit=0", errMsg: "limit must be between 1 and 100"},
		{name: "fractional limit", query: "limit=2.5", errMsg: "limit must be between 1 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			c.Request = httptest.NewRequest(http.MethodGet, "/v1/customers?"+tt.query, nil)

			page, err := ParsePage(c)

			if tt.errMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Equal(t, Page{}, page)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, page)
		})
	}
}

func TestPage_NextOffset(t *testing.T) {
	page := Page{Offset: 20, Limit: 10}

	next := page.NextOffset(10)
	require.NotNil(t, next)
	assert.Equal(t, 30, *next)

	assert.Nil(t, page.NextOffset(3))
	assert.Nil(t, page.NextOffset(0))
}
