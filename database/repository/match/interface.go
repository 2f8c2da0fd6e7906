package matchRepo

import (
	"context"
	"errors"
	"time"

	"localpro/models"
)

// ErrDuplicateIdempotencyKey reports that another writer already persisted
// a request under the same idempotency key. Callers recover by reading the
// winner's request back and replaying it.
var ErrDuplicateIdempotencyKey = errors.New("match request with this idempotency key already exists")

// MatchRepository persists match requests and their ranked candidates.
// Requests are immutable after insert except for reconciliation of
// partially written records.
type MatchRepository interface {
	// InsertRequest persists a new request. A uniqueness violation on the
	// idempotency key is returned as ErrDuplicateIdempotencyKey.
	InsertRequest(ctx context.Context, req models.MatchRequest) error

	// InsertCandidates persists ranked candidate rows for one request.
	InsertCandidates(ctx context.Context, candidates []models.MatchCandidate) error

	GetRequestByID(ctx context.Context, id string) (*models.MatchRequest, error)
	GetRequestByIdempotencyKey(ctx context.Context, key string) (*models.MatchRequest, error)

	// GetCandidates returns the candidates of a request ordered by rank.
	GetCandidates(ctx context.Context, requestID string) ([]models.MatchCandidate, error)

	// FindInconsistent returns requests in status CREATED older than cutoff
	// that have zero persisted candidates (a crash between the two writes).
	FindInconsistent(ctx context.Context, cutoff time.Time) ([]models.MatchRequest, error)

	// MarkNoCoverage reconciles a partially written request to NO_COVERAGE.
	MarkNoCoverage(ctx context.Context, requestID string) error
}
