package smoke

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/crudapi/internal/domain/model"
	"github.com/okian/crudapi/pkg/logger"
)

// Request shape cases. Write operations get most of the weight.
const (
	caseGet = iota
	caseDelete
	caseFullBody
	caseFullBodyAlt
	caseNameOnly
	caseNoBody
	caseEmptyObject
	caseNullBody
	shapeCount
)

var writeOperations = []model.Operation{
	model.OperationPost,
	model.OperationPut,
	model.OperationPatch,
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generateRequests creates NumRequests uuid-tagged requests of varied shape.
func generateRequests(ctx context.Context, config *Config, stats *Stats) ([]Request, error) {
	logger.Get().Info(ctx, "generating requests", logger.Int("numRequests", config.NumRequests))

	requests := make([]Request, 0, config.NumRequests)
	for i := 0; i < config.NumRequests; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during request generation: %w", err)
		}
		req, err := generateSingleRequest(uuid.NewString(), randomInt(shapeCount))
		if err != nil {
			return nil, fmt.Errorf("failed to generate request %d: %w", i, err)
		}
		requests = append(requests, req)
	}

	stats.RequestsGenerated = len(requests)
	logger.Get().Info(ctx, "generated requests successfully", logger.Int("count", len(requests)))
	return requests, nil
}

// generateSingleRequest builds the request for one shape case.
func generateSingleRequest(id string, shape int) (Request, error) {
	req := Request{ID: id}
	op := writeOperations[randomInt(len(writeOperations))]

	switch shape {
	case caseGet:
		req.Operation = model.OperationGet
		return req, nil
	case caseDelete:
		req.Operation = model.OperationDelete
		return req, nil
	case caseFullBody, caseFullBodyAlt:
		req.Operation = op
		req.Expected = model.NewItemPayload("item-"+id, "smoke request "+id)
	case caseNameOnly:
		req.Operation = op
		name := "item-" + id
		req.Expected = &model.ItemPayload{Name: &name}
	case caseNoBody:
		req.Operation = op
		return req, nil
	case caseEmptyObject:
		req.Operation = op
		req.Expected = &model.ItemPayload{}
	case caseNullBody:
		req.Operation = op
		req.Body = []byte("null")
		return req, nil
	default:
		return Request{}, fmt.Errorf("unknown request shape %d", shape)
	}

	body, err := marshalItem(req.Expected)
	if err != nil {
		return Request{}, err
	}
	req.Body = body
	return req, nil
}

// marshalItem encodes only the fields that are set, so absent fields are
// omitted on the wire rather than sent as null.
func marshalItem(item *model.ItemPayload) ([]byte, error) {
	fields := make(map[string]string, 2)
	if item.Name != nil {
		fields["name"] = *item.Name
	}
	if item.Description != nil {
		fields["description"] = *item.Description
	}
	return json.Marshal(fields)
}
