package llm

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"single line", "```json{\"a\":1}```", `{"a":1}`},
		{"padding", "  \n```json\n{}\n```  \n", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.input); got != tt.want {
				t.Errorf("StripCodeFence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewWithoutKeyIsUnavailable(t *testing.T) {
	c, err := New(context.Background(), Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	_, err = c.Complete(context.Background(), "", "hello", Options{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Complete() error = %v, want ErrUnavailable", err)
	}
}

func TestPick(t *testing.T) {
	if got := pick(int32(0), 800); got != 800 {
		t.Errorf("pick(0, 800) = %d", got)
	}
	if got := pick(float32(0.2), 0.7); got != 0.2 {
		t.Errorf("pick(0.2, 0.7) = %v", got)
	}
}
