package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/jrnl/internal/errors"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{
			name:     "plain error",
			err:      errors.New("unknown flag: --nope"),
			wantCode: errors.ExitUser,
			wantOut:  "Error: unknown flag: --nope\n",
		},
		{
			name:     "system error with suggestion",
			err:      errors.NewSystemError(errors.New("disk full"), "Free some space"),
			wantCode: errors.ExitSystem,
			wantOut:  "Error: disk full\nHint: Free some space\n",
		},
		{
			name:     "wrapped user error",
			err:      errors.Wrap(errors.NewUserError(errors.New("bad"), ""), "running"),
			wantCode: errors.ExitUser,
			wantOut:  "Error: bad\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, report(&buf, tt.err))
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}
