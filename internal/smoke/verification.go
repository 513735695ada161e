package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/crudapi/internal/domain/model"
	"github.com/okian/crudapi/pkg/logger"
)

// malformedBodies must each be rejected with a client error.
var malformedBodies = []string{
	`{"name": "x",`,
	`{"name": 5}`,
	`[1, 2, 3]`,
	`{"name": "x"} {"name": "y"}`,
}

// verifyAck checks a /crud response body against the acknowledgment the
// request should produce.
func verifyAck(req Request, body []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("%w: body is not a JSON object: %w", ErrContractMismatch, err)
	}

	_, hasData := fields["data"]
	if req.Operation.AcceptsBody() != hasData {
		return fmt.Errorf("%w: data present=%t for %s", ErrContractMismatch, hasData, req.Operation)
	}

	var got model.ItemAck
	if err := json.Unmarshal(body, &got); err != nil {
		return fmt.Errorf("%w: %w", ErrContractMismatch, err)
	}

	switch {
	case got.Operation != req.Operation:
		return fmt.Errorf("%w: operation %q, want %q", ErrContractMismatch, got.Operation, req.Operation)
	case got.Message != req.Operation.Message():
		return fmt.Errorf("%w: message %q", ErrContractMismatch, got.Message)
	case got.Status != model.StatusSuccess:
		return fmt.Errorf("%w: status %q", ErrContractMismatch, got.Status)
	}

	if !req.Operation.AcceptsBody() {
		return nil
	}
	if !samePayload(got.Data, req.Expected) {
		return fmt.Errorf("%w: data %s does not echo the request", ErrContractMismatch, fields["data"])
	}
	return nil
}

func samePayload(a, b *model.ItemPayload) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameString(a.Name, b.Name) && sameString(a.Description, b.Description)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// verifyRoot checks the GET / greeting.
func verifyRoot(ctx context.Context, client *HTTPClient) error {
	status, body, err := client.Do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}

	var root model.RootStatus
	if err := json.Unmarshal(body, &root); err != nil {
		return fmt.Errorf("%w: %w", ErrContractMismatch, err)
	}
	if root.Message != model.RootMessage {
		return fmt.Errorf("%w: greeting %q", ErrContractMismatch, root.Message)
	}

	logger.Get().Info(ctx, "root greeting verified")
	return nil
}

// verifyIdempotence sends req twice and requires byte-identical responses.
func verifyIdempotence(ctx context.Context, client *HTTPClient, req Request) error {
	_, first, err := client.Do(ctx, req.Operation.String(), "/crud", req.Body)
	if err != nil {
		return err
	}
	_, second, err := client.Do(ctx, req.Operation.String(), "/crud", req.Body)
	if err != nil {
		return err
	}
	if !bytes.Equal(first, second) {
		return fmt.Errorf("%w: repeated %s returned %q then %q", ErrContractMismatch, req.Operation, first, second)
	}

	logger.Get().Info(ctx, "idempotence verified", logger.String("operation", req.Operation.String()))
	return nil
}

// verifyMalformed requires every malformed body to produce a 4xx.
func verifyMalformed(ctx context.Context, client *HTTPClient) error {
	for _, body := range malformedBodies {
		status, _, err := client.Do(ctx, http.MethodPost, "/crud", []byte(body))
		if err != nil {
			return err
		}
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			return fmt.Errorf("%w: malformed body %q got %d", ErrUnexpectedStatus, body, status)
		}
	}

	logger.Get().Info(ctx, "malformed bodies rejected", logger.Int("cases", len(malformedBodies)))
	return nil
}
