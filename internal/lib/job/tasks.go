package job

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TaskLikeSync recomputes the denormalized like count of one product.
	TaskLikeSync = "product:like_sync"

	// TaskListingInvalidate drops every cached listing page.
	TaskListingInvalidate = "listing:invalidate"
)

// LikeSyncPayload identifies the product whose like count changed.
type LikeSyncPayload struct {
	ProductID string `json:"product_id"`
}

// ListingInvalidatePayload records why the listings were invalidated,
// for worker logs only.
type ListingInvalidatePayload struct {
	Reason string `json:"reason"`
}

// EnqueueLikeSync schedules a like-count recomputation for productID.
func (j *JobService) EnqueueLikeSync(productID string) error {
	payload, err := json.Marshal(LikeSyncPayload{ProductID: productID})
	if err != nil {
		return fmt.Errorf("failed to marshal like sync payload: %w", err)
	}

	_, err = j.Client.Enqueue(
		asynq.NewTask(TaskLikeSync, payload),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	return err
}

// EnqueueListingInvalidate schedules a listing cache flush.
func (j *JobService) EnqueueListingInvalidate(reason string) error {
	payload, err := json.Marshal(ListingInvalidatePayload{Reason: reason})
	if err != nil {
		return fmt.Errorf("failed to marshal listing invalidate payload: %w", err)
	}

	_, err = j.Client.Enqueue(
		asynq.NewTask(TaskListingInvalidate, payload),
		asynq.Queue("low"),
		asynq.MaxRetry(3),
	)
	return err
}
