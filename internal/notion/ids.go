package notion

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	syncerrors "github.com/alexjbarnes/notion-docs-sync/internal/errors"
)

// ParseID returns the canonical dashed form of a page or block id. It
// accepts dashed and undashed ids as well as page URLs, whose id is the
// trailing 32 hex characters of the last path segment.
func ParseID(s string) (string, error) {
	s = strings.TrimSpace(s)

	if u, err := url.Parse(s); err == nil && u.Host != "" {
		segment := u.Path[strings.LastIndex(u.Path, "/")+1:]
		if len(segment) >= 32 {
			s = segment[len(segment)-32:]
		} else {
			s = segment
		}
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", syncerrors.ErrInvalidID, s)
	}

	return id.String(), nil
}

// SameID reports whether two ids name the same object, ignoring dashes
// and case.
func SameID(a, b string) bool {
	x, errA := uuid.Parse(a)
	y, errB := uuid.Parse(b)

	if errA != nil || errB != nil {
		return a == b
	}

	return x == y
}
