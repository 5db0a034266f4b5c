package metric

import (
	"context"
	"hallsite/src-server/model"
	"hallsite/src-server/utils"
	"time"
)

func tokenCache(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.SessionToken)(nil)).
		Where("key = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
