package scraper

import "fmt"

// Field is the outcome of extracting one value from a card:
// either a value or the reason it is unavailable.
type Field struct {
	value string
	err   error
}

func Found(value string) Field {
	return Field{value: value}
}

func Unavailable(err error) Field {
	if err == nil {
		err = ErrFieldMissing
	}
	return Field{err: err}
}

// Missing is shorthand for a field whose element was absent.
func Missing(name string) Field {
	return Field{err: fmt.Errorf("%w: %s", ErrFieldMissing, name)}
}

func (f Field) OK() bool {
	return f.err == nil
}

func (f Field) Err() error {
	return f.err
}

// Or returns the value, or sentinel when the field is unavailable.
func (f Field) Or(sentinel string) string {
	if f.err != nil {
		return sentinel
	}
	return f.value
}
