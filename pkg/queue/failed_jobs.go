package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adeqintegrated/adeqsite/pkg/logger"
)

// FailedJobRecord is the document persisted for a job that exhausted its
// retries, so an operator can inspect or replay it.
type FailedJobRecord struct {
	JobType  string    `bson:"jobType"`
	Payload  string    `bson:"payload"`
	Error    string    `bson:"error"`
	Attempts int       `bson:"attempts"`
	FailedAt time.Time `bson:"failedAt"`
}

// failedJobColl is the optional Mongo backend for persisting failed jobs.
// Set via UseMongo(); nil means in-memory only.
var failedJobColl *mongo.Collection

// UseMongo configures the queue to persist failed jobs to a collection.
// Call once at boot, after the database connection is up:
//
//	queue.UseMongo(database.Collection("failed_jobs"))
func UseMongo(coll *mongo.Collection) {
	failedJobColl = coll
}

// persistFailed appends the failure to the in-memory slice and, when a
// collection is configured, writes it to Mongo as well.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	if failedJobColl == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := failedJobColl.InsertOne(ctx, record); err != nil {
		// Non-fatal, the in-memory slice still has it.
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
