package shared

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFieldError(t *testing.T) {
	tc := []struct {
		name string
		err  *FieldError
		want string
		kind error
	}{
		{
			name: "with field",
			err:  NewFieldError(ErrParse, "level", "%q is not an integer", "abc"),
			want: `parse error: level: "abc" is not an integer`,
			kind: ErrParse,
		},
		{
			name: "without field",
			err:  NewFieldError(ErrValidation, "", "empty body"),
			want: "validation failed: empty body",
			kind: ErrValidation,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("expected errors.Is(%v)", tt.kind)
			}

			var fe *FieldError
			if !errors.As(fmtWrap(tt.err), &fe) {
				t.Error("expected errors.As to find FieldError through wrapping")
			}
		})
	}
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("outer"), err)
}

func TestShortFingerprint(t *testing.T) {
	if got := ShortFingerprint("abc"); got != "abc" {
		t.Errorf("expected short input unchanged, got %q", got)
	}
	if got := ShortFingerprint("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("expected truncation to 12 chars, got %q", got)
	}
}

func TestLogger(t *testing.T) {
	t.Run("ApplyLogConfig", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		if err := ApplyLogConfig(logger, LogConfig{Level: "warn"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if logger.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", logger.GetLevel())
		}

		logger.Info("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}

		if err := ApplyLogConfig(logger, LogConfig{Level: "loud"}); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("expected distinct uuids, got %q and %q", a, b)
		}
	})
}
