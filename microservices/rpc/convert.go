package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	errs "stockfish_harness/internal/errors"
)

// Encode packs a JSON-serializable value into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to build struct from %T: %w", v, err)
	}
	return s, nil
}

// Decode unpacks a Struct produced by Encode into v.
func Decode(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode struct into %T: %w", v, err)
	}
	return nil
}

// ErrorDomain tags the ErrorInfo detail attached by ToStatus.
const ErrorDomain = "harness.stockfish"

var sentinels = []struct {
	reason string
	err    error
	code   codes.Code
}{
	{"INVALID_CHESS960_ID", errs.ErrInvalidChess960ID, codes.InvalidArgument},
	{"INVALID_REQUEST", errs.ErrInvalidRequest, codes.InvalidArgument},
	{"VARIANT_MISMATCH", errs.ErrVariantMismatch, codes.FailedPrecondition},
	{"ANALYSIS_NOT_FOUND", errs.ErrAnalysisNotFound, codes.NotFound},
	{"SESSION_CLOSED", errs.ErrSessionClosed, codes.Unavailable},
	{"PROTOCOL_DISCONNECT", errs.ErrProtocolDisconnect, codes.Unavailable},
	{"MALFORMED_NUMERIC_FIELD", errs.ErrMalformedNumericField, codes.DataLoss},
	{"LOOKUP_MISS", errs.ErrLookupMiss, codes.DataLoss},
	{"MISSING_TOKEN", errs.ErrMissingToken, codes.DataLoss},
	{"INTERNAL", errs.ErrInternal, codes.Internal},
}

// remoteError is a domain error rebuilt on the client side of the service.
type remoteError struct {
	msg  string
	errs []error
}

func (e *remoteError) Error() string   { return e.msg }
func (e *remoteError) Unwrap() []error { return e.errs }

// ToStatus maps a domain error onto a gRPC status. Every sentinel err matches is listed in an
// ErrorInfo detail, together with the fields of a FieldError, so FromStatus can rebuild it.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}

	code := codes.Internal
	info := &errdetails.ErrorInfo{Domain: ErrorDomain, Metadata: map[string]string{}}
	for _, s := range sentinels {
		if !errors.Is(err, s.err) {
			continue
		}
		if info.Reason == "" {
			info.Reason = s.reason
			code = s.code
		}
		info.Metadata[s.reason] = "true"
	}
	if info.Reason == "" {
		info.Reason = "INTERNAL"
	}

	var fieldErr *errs.FieldError
	if errors.As(err, &fieldErr) {
		info.Metadata["field"] = fieldErr.Field
		info.Metadata["value"] = fieldErr.Value
		info.Metadata["reason"] = fieldErr.Reason
		info.Metadata["fen"] = fieldErr.Fen
	}

	st, detailErr := status.New(code, err.Error()).WithDetails(info)
	if detailErr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}

// FromStatus maps a gRPC status back onto the domain errors. Statuses without an ErrorInfo detail
// fall back to a sentinel chosen by code.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		if rebuilt := fromErrorInfo(st.Message(), info); rebuilt != nil {
			return rebuilt
		}
	}

	var sentinel error
	switch st.Code() {
	case codes.InvalidArgument:
		sentinel = errs.ErrInvalidRequest
	case codes.FailedPrecondition:
		sentinel = errs.ErrVariantMismatch
	case codes.NotFound:
		sentinel = errs.ErrAnalysisNotFound
	case codes.Unavailable:
		sentinel = errs.ErrProtocolDisconnect
	default:
		sentinel = errs.ErrInternal
	}
	return &remoteError{msg: st.Message(), errs: []error{sentinel}}
}

func fromErrorInfo(msg string, info *errdetails.ErrorInfo) error {
	md := info.GetMetadata()

	var matched []error
	for _, s := range sentinels {
		if ok, _ := strconv.ParseBool(md[s.reason]); ok || s.reason == info.GetReason() {
			matched = append(matched, s.err)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	if field, ok := md["field"]; ok {
		fieldErr := &errs.FieldError{Field: field, Value: md["value"], Reason: md["reason"], Fen: md["fen"]}
		if len(matched) == 1 && fieldErr.Error() == msg {
			return fieldErr
		}
		matched = append(matched, fieldErr)
	}
	return &remoteError{msg: msg, errs: matched}
}
