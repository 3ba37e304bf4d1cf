package pagination

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the recommended default page size for paginated results
	DefaultLimit = 50

	// MaxLimit is the maximum allowed page size for paginated results
	MaxLimit = 200

	cursorPrefix = "offset:"
)

var (
	// ErrInvalidLimit is returned when the pagination limit is invalid
	ErrInvalidLimit = errors.New("pagination limit must be greater than 0 and less than or equal to MaxLimit")

	// ErrInvalidCursor is returned when a pagination cursor is invalid
	ErrInvalidCursor = errors.New("invalid pagination cursor format")

	// ErrCursorLoop is returned when a peer hands back a cursor it already sent
	ErrCursorLoop = errors.New("pagination cursor repeated")
)

// EncodeCursor returns the opaque cursor that resumes listing at offset
func EncodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor returns the offset encoded in cursor. The empty cursor is
// offset zero.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, ErrInvalidCursor
	}
	offset, err := strconv.Atoi(s)
	if err != nil || offset < 0 {
		return 0, ErrInvalidCursor
	}
	return offset, nil
}

// ClampLimit applies DefaultLimit to non-positive limits and caps at MaxLimit
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ValidateLimit rejects limits outside (0, MaxLimit]
func ValidateLimit(limit int) error {
	if limit <= 0 || limit > MaxLimit {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}

// Page returns the window of items that cursor points at, at most limit long,
// and the cursor of the following window. The returned cursor is empty on
// the last page.
func Page[T any](items []T, cursor string, limit int) ([]T, string, error) {
	start, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if start > len(items) {
		return nil, "", fmt.Errorf("%w: offset %d past end", ErrInvalidCursor, start)
	}

	end := start + ClampLimit(limit)
	if end >= len(items) {
		return items[start:], "", nil
	}
	return items[start:end], EncodeCursor(end), nil
}

// FetchFunc fetches the page at cursor and returns its items and the next cursor
type FetchFunc[T any] func(ctx context.Context, cursor string) ([]T, string, error)

// CollectAll follows cursors until the last page and returns every item
func CollectAll[T any](ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	var all []T
	seen := make(map[string]struct{})
	cursor := ""
	for {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return all, err
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		if _, dup := seen[next]; dup {
			return all, fmt.Errorf("%w: %q", ErrCursorLoop, next)
		}
		seen[next] = struct{}{}
		cursor = next
	}
}
