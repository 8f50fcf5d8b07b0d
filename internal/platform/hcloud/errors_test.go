package hcloud

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/devlab/internal/util/retry"
)

func apiError(code hcloud.ErrorCode) error {
	return hcloud.Error{Code: code, Message: string(code)}
}

func TestIsResourceLocked(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"locked", apiError(hcloud.ErrorCodeLocked), true},
		{"conflict", apiError(hcloud.ErrorCodeConflict), true},
		{"resource locked", apiError(hcloud.ErrorCodeResourceLocked), true},
		{"unavailable", apiError(hcloud.ErrorCodeResourceUnavailable), true},
		{"not found", apiError(hcloud.ErrorCodeNotFound), false},
		{"wrapped locked", fmt.Errorf("delete: %w", apiError(hcloud.ErrorCodeLocked)), true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isResourceLocked(tt.err); got != tt.expected {
				t.Errorf("isResourceLocked(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(apiError(hcloud.ErrorCodeNotFound)) {
		t.Error("expected not-found classification")
	}
	if IsNotFound(apiError(hcloud.ErrorCodeLocked)) {
		t.Error("locked is not not-found")
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(apiError(hcloud.ErrorCodeRateLimitExceeded)) {
		t.Error("expected rate-limit classification")
	}
	if IsRateLimited(errors.New("boom")) {
		t.Error("plain error is not rate limiting")
	}
}

func TestDeleteRetryErr(t *testing.T) {
	if err := deleteRetryErr(nil); err != nil {
		t.Errorf("nil error should pass through, got %v", err)
	}
	if err := deleteRetryErr(apiError(hcloud.ErrorCodeNotFound)); err != nil {
		t.Errorf("a vanished server counts as deleted, got %v", err)
	}

	for _, code := range []hcloud.ErrorCode{hcloud.ErrorCodeLocked, hcloud.ErrorCodeRateLimitExceeded} {
		err := deleteRetryErr(apiError(code))
		if err == nil || retry.IsFatal(err) {
			t.Errorf("%s should be retryable, got %v", code, err)
		}
	}

	err := deleteRetryErr(errors.New("boom"))
	if !retry.IsFatal(err) {
		t.Errorf("unclassified errors should stop the retry loop, got %v", err)
	}
}
