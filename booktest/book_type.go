package booktest

import (
	"fmt"
	"strings"
)

// BookType is the stored category of a book.
type BookType int

const (
	Fiction    BookType = 1
	NonFiction BookType = 2
)

// BookTypes lists every valid BookType.
var BookTypes = []BookType{Fiction, NonFiction}

func (bt BookType) String() string {
	switch bt {
	case Fiction:
		return "FICTION"
	case NonFiction:
		return "NONFICTION"
	default:
		return fmt.Sprintf("BookType(%d)", int(bt))
	}
}

// Valid reports whether bt is one of BookTypes.
func (bt BookType) Valid() bool {
	return bt == Fiction || bt == NonFiction
}

// ParseBookType accepts the label of a book type, case-insensitively.
func ParseBookType(s string) (BookType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FICTION":
		return Fiction, nil
	case "NONFICTION":
		return NonFiction, nil
	default:
		return 0, fmt.Errorf("%w: unknown book type %q", ErrInvalid, s)
	}
}

func (bt BookType) MarshalText() ([]byte, error) {
	if !bt.Valid() {
		return nil, fmt.Errorf("%w: unknown book type %d", ErrInvalid, int(bt))
	}
	return []byte(bt.String()), nil
}

func (bt *BookType) UnmarshalText(text []byte) error {
	v, err := ParseBookType(string(text))
	if err != nil {
		return err
	}
	*bt = v
	return nil
}
