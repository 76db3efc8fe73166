package ingest

import (
	"context"
	"errors"

	"github.com/AngelCh415/voyage-analytics/internal/utils"
)

// GetJSONWithRetry retries transport failures and retryable statuses.
// 4xx answers and undecodable bodies fail on the first attempt.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any, bo utils.Backoff) error {
	return bo.Do(ctx, func(int) error {
		err := getJSON(ctx, c, url, dst)
		if err == nil {
			return nil
		}
		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return &utils.Permanent{Err: err}
		}
		if errors.Is(err, ErrDecode) {
			return &utils.Permanent{Err: err}
		}
		return err
	})
}
