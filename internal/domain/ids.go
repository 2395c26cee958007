package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidIDFormat is returned when an identifier cannot be parsed.
var ErrInvalidIDFormat = errors.New("invalid ID format")

// AccountID identifies an account. Values are allocated by the store and start at 1.
type AccountID int64

// TransferID identifies a transfer. Values are allocated by the store and start at 1.
type TransferID int64

// ParseAccountID parses a positive decimal account identifier.
func ParseAccountID(s string) (AccountID, error) {
	id, err := parseID(s)
	if err != nil {
		return 0, fmt.Errorf("%w: account id %q", ErrInvalidIDFormat, s)
	}
	return AccountID(id), nil
}

// ParseTransferID parses a positive decimal transfer identifier.
func ParseTransferID(s string) (TransferID, error) {
	id, err := parseID(s)
	if err != nil {
		return 0, fmt.Errorf("%w: transfer id %q", ErrInvalidIDFormat, s)
	}
	return TransferID(id), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, ErrInvalidIDFormat
	}
	return id, nil
}

func (id AccountID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id TransferID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// LockOrder returns the distinct ids in ascending order.
// Row locks are always taken in this order so that two transfers over the
// same pair of accounts cannot deadlock on each other.
func LockOrder(ids ...AccountID) []AccountID {
	seen := make(map[AccountID]bool, len(ids))
	out := make([]AccountID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
