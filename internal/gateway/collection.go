package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/repo"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
)

type observer struct {
	log     *logger.Logger
	metrics *metrics.GatewayMetrics
}

// run executes fn and folds its outcome into a Result. Panics and store
// errors never escape.
func (o *observer) run(ctx context.Context, operation string, fn func(ctx context.Context) (any, error)) (res Result) {
	start := time.Now()
	if o.log != nil {
		ctx = o.log.WithOperation(ctx, operation)
	}
	defer func() {
		if rec := recover(); rec != nil {
			res = failure(pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("%s panicked: %v", operation, rec)))
		}
		o.metrics.Observe(operation, res.Success, time.Since(start))
		if !res.Success && o.log != nil {
			o.log.Error(ctx, "gateway.operation_failed", res.cause)
		}
	}()

	data, err := fn(ctx)
	if err != nil {
		return failure(db.Classify(err, err.Error()))
	}
	return success(data)
}

// scope tags ctx with the inventory, and the item when itemID is non-zero,
// that an operation targets.
func (o *observer) scope(ctx context.Context, inventoryID, itemID int64) context.Context {
	if o.log == nil {
		return ctx
	}
	ctx = o.log.WithInventoryID(ctx, inventoryID)
	if itemID != 0 {
		ctx = o.log.WithItemID(ctx, itemID)
	}
	return ctx
}

// Collection exposes the uniform verbs for one record kind.
type Collection[T any] struct {
	module string
	repo   *repo.Repository[T]
	obs    *observer
}

func newCollection[T any](module string, r *repo.Repository[T], obs *observer) Collection[T] {
	return Collection[T]{module: module, repo: r, obs: obs}
}

func (c Collection[T]) op(method string) string {
	return c.module + "." + method
}

// Create decodes payload into a record and inserts it. The data is a one
// element array holding the persisted record.
func (c Collection[T]) Create(ctx context.Context, payload json.RawMessage) Result {
	return c.obs.run(ctx, c.op("create"), func(ctx context.Context) (any, error) {
		record, err := c.repo.DecodeRecord(payload)
		if err != nil {
			return nil, err
		}
		if err := c.repo.Create(ctx, record); err != nil {
			return nil, err
		}
		return []T{*record}, nil
	})
}

// Insert persists an already typed record.
func (c Collection[T]) Insert(ctx context.Context, record *T) Result {
	return c.obs.run(ctx, c.op("create"), func(ctx context.Context) (any, error) {
		if err := c.repo.Create(ctx, record); err != nil {
			return nil, err
		}
		return []T{*record}, nil
	})
}

func (c Collection[T]) GetAll(ctx context.Context) Result {
	return c.obs.run(ctx, c.op("getAll"), func(ctx context.Context) (any, error) {
		return c.repo.GetAll(ctx)
	})
}

// GetByID returns zero or one records; absence is not a failure.
func (c Collection[T]) GetByID(ctx context.Context, id int64) Result {
	return c.obs.run(ctx, c.op("getById"), func(ctx context.Context) (any, error) {
		record, err := c.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return []T{}, nil
		}
		return []T{*record}, nil
	})
}

// UpdateByID merges the JSON patch into the record. An unknown id succeeds
// with no rows.
func (c Collection[T]) UpdateByID(ctx context.Context, id int64, patch json.RawMessage) Result {
	return c.obs.run(ctx, c.op("updateById"), func(ctx context.Context) (any, error) {
		typed, err := c.repo.DecodePatch(patch)
		if err != nil {
			return nil, err
		}
		return c.repo.UpdateByID(ctx, id, typed)
	})
}

func (c Collection[T]) DeleteByID(ctx context.Context, id int64) Result {
	return c.obs.run(ctx, c.op("deleteById"), func(ctx context.Context) (any, error) {
		return c.repo.DeleteByID(ctx, id)
	})
}

func (c Collection[T]) findBy(ctx context.Context, method, column string, value any) Result {
	return c.obs.run(ctx, c.op(method), func(ctx context.Context) (any, error) {
		return c.repo.FindBy(ctx, column, value)
	})
}
