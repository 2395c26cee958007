package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

type nopRecorder struct{}

func (nopRecorder) AccountCreated() {}
func (nopRecorder) TransferCompleted(decimal.Decimal, time.Duration) {}
func (nopRecorder) TransferFailed(domain.ErrorKind) {}
func (nopRecorder) TransferRetried() {}

// singleAttempt runs the operation once. Used when no Retrier is configured.
type singleAttempt struct{}

func (singleAttempt) Retry(_ context.Context, operation func() error) error {
	return operation()
}
