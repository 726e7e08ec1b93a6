package rpc

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	errs "stockfish_harness/internal/errors"
)

func TestStatusRoundTrip(t *testing.T) {
	closedMidSearch := fmt.Errorf("%w: %w", errs.ErrSessionClosed, errs.ErrProtocolDisconnect)
	missingBestMove := fmt.Errorf("%w: %w %q", errs.ErrProtocolDisconnect, errs.ErrMissingToken, "bestmove")

	tests := []struct {
		name string
		err  error
		code codes.Code
		want []error
	}{
		{"invalid id", errs.ErrInvalidChess960ID, codes.InvalidArgument, []error{errs.ErrInvalidChess960ID}},
		{"not found", errs.ErrAnalysisNotFound, codes.NotFound, []error{errs.ErrAnalysisNotFound}},
		{"lookup miss", errs.ErrLookupMiss, codes.DataLoss, []error{errs.ErrLookupMiss}},
		{"closed mid search", closedMidSearch, codes.Unavailable, []error{errs.ErrSessionClosed, errs.ErrProtocolDisconnect}},
		{"missing bestmove", missingBestMove, codes.Unavailable, []error{errs.ErrProtocolDisconnect, errs.ErrMissingToken}},
		{"unknown", errors.New("boom"), codes.Internal, []error{errs.ErrInternal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ToStatus(tt.err)
			if got := status.Code(st); got != tt.code {
				t.Errorf("code = %v, want %v", got, tt.code)
			}

			back := FromStatus(st)
			for _, want := range tt.want {
				if !errors.Is(back, want) {
					t.Errorf("%v does not match %v", back, want)
				}
			}
			if back.Error() != tt.err.Error() {
				t.Errorf("message = %q, want %q", back.Error(), tt.err.Error())
			}
		})
	}
}

func TestFromStatusWithoutDetails(t *testing.T) {
	back := FromStatus(status.Error(codes.Unavailable, "connection refused"))
	if !errors.Is(back, errs.ErrProtocolDisconnect) || back.Error() != "connection refused" {
		t.Errorf("got %v", back)
	}

	plain := errors.New("not a status")
	if FromStatus(plain) != plain {
		t.Error("non-status error was rewritten")
	}
}
