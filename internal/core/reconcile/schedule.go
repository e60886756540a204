package reconcile

import (
	"context"
	"time"
)

// RunEvery は interval ごとに Run を実行し、ctx がキャンセルされると nil を返します。
// 個々の実行の失敗はログに記録して次の周期で再実行します。interval が 0 以下なら何もしません。
func (r *Reconciler) RunEvery(ctx context.Context, interval time.Duration, onResult func(Result)) error {
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			result, err := r.Run(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.logger.Error().Err(err).Msg("scheduled reconciliation failed")
				continue
			}
			if onResult != nil {
				onResult(result)
			}
		}
	}
}
