package smoke

import (
	"time"

	"github.com/okian/crudapi/internal/domain/model"
)

// Config holds configuration for a smoke run
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of /crud requests to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for run output
	Verbose     bool          // Log every failed check
}

// Request is one generated call against /crud.
type Request struct {
	ID        string
	Operation model.Operation
	// Body is the raw request body; nil sends no body.
	Body []byte
	// Expected is the payload the service should echo; nil expects null.
	Expected *model.ItemPayload
}

// Stats holds run statistics
type Stats struct {
	RequestsGenerated int
	RequestsSubmitted int
	RequestsPassed    int
	RequestsFailed    int
	ChecksFailed      int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
