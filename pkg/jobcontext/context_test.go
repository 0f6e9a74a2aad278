package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestJobBegin_PopulatesMetadata(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := JobBegin(context.Background(), jobID, "plan_generation", 3)
	defer cancel()

	gotID, ok := GetJobID(ctx)
	if !ok || gotID != jobID {
		t.Fatalf("expected job id %s, got %s (ok=%v)", jobID, gotID, ok)
	}
	if jobType, _ := GetJobType(ctx); jobType != "plan_generation" {
		t.Fatalf("expected job type plan_generation, got %q", jobType)
	}
	if got := GetWorkerID(ctx); got != 3 {
		t.Fatalf("expected worker 3, got %d", got)
	}
	if got := GetRetryAttempt(ctx); got != 0 {
		t.Fatalf("fresh job must start at attempt 0, got %d", got)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("job context must carry a deadline")
	}
}

func TestSetWorkerMetadata_UpdatesDescribeJob(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := JobBegin(context.Background(), jobID, "plan_generation", 1)
	defer cancel()

	ctx = SetWorkerMetadata(ctx, 7, 2)

	if got := GetWorkerID(ctx); got != 7 {
		t.Fatalf("expected worker 7 after update, got %d", got)
	}
	if got := GetRetryAttempt(ctx); got != 2 {
		t.Fatalf("expected attempt 2 after update, got %d", got)
	}
	want := fmt.Sprintf("job=%s type=plan_generation worker=7 attempt=2", jobID)
	if got := DescribeJob(ctx); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetWorkerID_MissingDefaults(t *testing.T) {
	ctx := context.Background()
	if got := GetWorkerID(ctx); got != -1 {
		t.Fatalf("expected -1 for missing worker id, got %d", got)
	}
	if got := GetRetryAttempt(ctx); got != 0 {
		t.Fatalf("expected 0 for missing attempt, got %d", got)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection refused"), true},
		{errors.New("deadlock detected"), true},
		{errors.New("rate limit exceeded, try later"), true},
		{errors.New("api returned status 503 service unavailable"), true},
		{errors.New("validation failed: duration must be positive"), false},
		{errors.New("unauthorized"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableError(tt.err); got != tt.want {
			t.Fatalf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
