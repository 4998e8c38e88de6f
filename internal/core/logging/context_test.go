package logging

import (
	"context"
	"testing"
)

func TestWithDiffRef(t *testing.T) {
	ctx := WithDiffRef(context.Background(), "main..feature")

	if got := GetDiffRef(ctx); got != "main..feature" {
		t.Errorf("GetDiffRef() = %q, want %q", got, "main..feature")
	}
}

func TestWithCommit(t *testing.T) {
	ctx := WithCommit(context.Background(), "abc1234")

	if got := GetCommit(ctx); got != "abc1234" {
		t.Errorf("GetCommit() = %q, want %q", got, "abc1234")
	}
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetDiffRef(ctx); got != "" {
		t.Errorf("GetDiffRef() = %q, want empty string", got)
	}
	if got := GetCommit(ctx); got != "" {
		t.Errorf("GetCommit() = %q, want empty string", got)
	}
}
