package sl

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "обычная ошибка",
			err:  errors.New("something went wrong"),
			want: "something went wrong",
		},
		{
			name: "обёрнутая ошибка",
			err:  errors.Join(errors.New("outer"), errors.New("inner")),
			want: "outer\ninner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Err(tt.err)

			assert.Equal(t, "error", attr.Key)
			assert.Equal(t, slog.KindString, attr.Value.Kind())
			assert.Equal(t, tt.want, attr.Value.String())
		})
	}
}
