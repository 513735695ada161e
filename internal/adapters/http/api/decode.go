package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/crudapi/internal/domain/model"
	"github.com/okian/crudapi/pkg/metrics"
)

// Decode failure reasons used as metric labels.
const (
	reasonSyntax   = "syntax"
	reasonType     = "type"
	reasonTrailing = "trailing_data"
	reasonTooLarge = "too_large"
)

// decodeItem reads an optional ItemPayload from the request body. An empty
// or whitespace-only body, or a literal null, yields a nil payload. Unknown
// fields are ignored.
func decodeItem(op string, operation model.Operation, r *http.Request) (*model.ItemPayload, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	dec := json.NewDecoder(r.Body)

	var item *model.ItemPayload
	if err := dec.Decode(&item); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, decodeFailure(op, operation, err)
	}

	// Exactly one JSON document is allowed.
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON body")
		}
		return nil, decodeFailure(op, operation, err)
	}

	return item, nil
}

func decodeFailure(op string, operation model.Operation, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		metrics.RecordDecodeFailure(operation.String(), reasonTooLarge)
		return WrapKind(op, ErrPayloadTooLarge, err)
	}

	reason := reasonTrailing
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		reason = reasonType
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		reason = reasonSyntax
	}
	metrics.RecordDecodeFailure(operation.String(), reason)
	return WrapKind(op, ErrUnprocessable, err)
}
