package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleLikeSyncTask recomputes products.like_count from product_likes.
//
// Returning an error makes Asynq mark the task failed and retry it.
func (j *JobService) handleLikeSyncTask(ctx context.Context, t *asynq.Task) error {
	var p LikeSyncPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal like sync payload: %w", err)
	}

	j.logger.Info().
		Str("type", TaskLikeSync).
		Str("product_id", p.ProductID).
		Msg("Processing like sync task")

	_, err := j.pool.Exec(ctx, `
		UPDATE products
		SET like_count = (SELECT count(*) FROM product_likes WHERE product_id = $1)
		WHERE id = $1`,
		p.ProductID,
	)
	if err != nil {
		j.logger.Error().
			Str("type", TaskLikeSync).
			Str("product_id", p.ProductID).
			Err(err).
			Msg("Failed to sync like count")
		return err
	}

	return nil
}

// handleListingInvalidateTask drops cached listing pages.
func (j *JobService) handleListingInvalidateTask(ctx context.Context, t *asynq.Task) error {
	var p ListingInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal listing invalidate payload: %w", err)
	}

	j.logger.Info().
		Str("type", TaskListingInvalidate).
		Str("reason", p.Reason).
		Msg("Processing listing invalidate task")

	if err := j.cache.InvalidateListings(ctx); err != nil {
		j.logger.Error().
			Str("type", TaskListingInvalidate).
			Err(err).
			Msg("Failed to invalidate listing cache")
		return err
	}

	return nil
}
