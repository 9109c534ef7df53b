package errors

import (
	"fmt"
	"strings"
)

// Append joins errs into one error, skipping nil values. It returns nil
// when nothing is left and the single error itself when only one is.
func Append(errs ...error) error {
	var joined multiErr
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(multiErr); ok {
			joined = append(joined, m...)
			continue
		}
		joined = append(joined, err)
	}
	switch len(joined) {
	case 0:
		return nil
	case 1:
		return joined[0]
	}
	return joined
}

// multiErr reports the ABCI code of its first error.
type multiErr []error

func (m multiErr) Error() string {
	lines := make([]string, 0, len(m))
	for _, err := range m {
		lines = append(lines, "* "+err.Error())
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m), strings.Join(lines, "\n\t"))
}

func (m multiErr) Unpack() []error {
	return []error(m)
}

func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}
