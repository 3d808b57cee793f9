package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

const (
	// DefaultPageLimit is used when the limit query parameter is absent.
	DefaultPageLimit = 50
	// MaxPageLimit bounds how many rows are decrypted per request.
	MaxPageLimit = 100
)

// Page is a window over an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

// NextOffset returns the offset of the following page, or nil once a short page shows the
// listing is exhausted.
func (p Page) NextOffset(returned int) *int {
	if returned < p.Limit {
		return nil
	}
	next := p.Offset + returned
	return &next
}

// ParsePage reads offset and limit from the query string. Malformed values are
// ErrInvalidInput.
func ParsePage(c *gin.Context) (Page, error) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return Page{}, apperrors.Wrap(apperrors.ErrInvalidInput, "offset must be a non-negative integer")
	}

	limit, err := queryInt(c, "limit", DefaultPageLimit)
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return Page{}, apperrors.Wrapf(apperrors.ErrInvalidInput, "limit must be between 1 and %d", MaxPageLimit)
	}

	return Page{Offset: offset, Limit: limit}, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
