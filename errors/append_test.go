package errors

import (
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs     []error
		wantNil  bool
		wantCode uint32
		wantIs   []*Error
	}{
		"no errors": {
			errs:    nil,
			wantNil: true,
		},
		"only nil errors": {
			errs:    []error{nil, nil},
			wantNil: true,
		},
		"single error is returned as it is": {
			errs:     []error{nil, ErrNotFound},
			wantCode: ErrNotFound.code,
			wantIs:   []*Error{ErrNotFound},
		},
		"code of the first error is used": {
			errs:     []error{Wrap(ErrEmpty, "a"), ErrDuplicate},
			wantCode: ErrEmpty.code,
			wantIs:   []*Error{ErrEmpty, ErrDuplicate},
		},
		"nested clubbed errors are flattened": {
			errs:     []error{Append(ErrInput, ErrModel), ErrState},
			wantCode: ErrInput.code,
			wantIs:   []*Error{ErrInput, ErrModel, ErrState},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Append(tc.errs...)
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %+v", err)
				}
				return
			}
			if code := abciCode(err); code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			for _, kind := range tc.wantIs {
				if !kind.Is(err) {
					t.Errorf("want %q error, got %q", kind, err)
				}
			}
		})
	}
}
