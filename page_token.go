package rowset

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

var _encoder = base64.RawURLEncoding

// PageToken is an opaque token naming a page of a cursor's view. It lets an
// API hand out "next page" tokens instead of raw page numbers.
type PageToken struct {
	page int
}

func NewPageToken(page int) *PageToken {
	return &PageToken{
		page: page,
	}
}

// DecodePageToken parses a base64-encoded token into *PageToken. An empty
// string yields a nil token, which stands for the first page.
func DecodePageToken(b64String string) (*PageToken, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	pageBytes, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded page token: %w", err)
	}

	page, err := strconv.Atoi(string(pageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page token value: %w", err)
	}

	if page < 1 {
		return nil, fmt.Errorf("page token points to page %d", page)
	}

	return &PageToken{
		page: page,
	}, nil
}

// String - implements fmt.Stringer. The first page encodes to "".
func (p *PageToken) String() string {
	if p.IsEmpty() {
		return ""
	}

	return _encoder.EncodeToString([]byte(strconv.Itoa(p.page)))
}

// IsEmpty reports whether the token points at the first page.
func (p *PageToken) IsEmpty() bool {
	return p == nil || p.page <= 1
}

// Page returns the page number, 1 for an empty token.
func (p *PageToken) Page() int {
	if p.IsEmpty() {
		return 1
	}

	return p.page
}

// WithPage sets the page number and returns the token.
func (p *PageToken) WithPage(page int) *PageToken {
	if p == nil {
		p = new(PageToken)
	}

	p.page = page

	return p
}

var _ fmt.Stringer = (*PageToken)(nil)
