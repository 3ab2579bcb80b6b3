package kafka

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/lovoo/goka"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.ViewCounts = (*ViewCountView)(nil)

// A ViewCountView reads the per-product totals from the count processor's
// group table.
type ViewCountView struct {
	gv *goka.View
}

func NewViewCountView(
	seedBrokers []string, groupTable string,
) (*ViewCountView, error) {
	const op = "NewViewCountView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.Table(groupTable),
		viewCountCodec{},
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &ViewCountView{gv}, nil
}

func (v *ViewCountView) Run(ctx context.Context) {
	const op = "ViewCountView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// TopViewed returns up to limit products ordered by view total, highest
// first. Ties break on product id so the order is stable between calls.
func (v *ViewCountView) TopViewed(limit int) ([]domain.ProductViewCount, error) {
	const op = "ViewCountView.TopViewed"

	it, err := v.gv.Iterator()
	if err != nil {
		return nil, opErr(err, op)
	}

	var counts []domain.ProductViewCount
	for it.Next() {
		productID, err := strconv.ParseInt(it.Key(), 10, 64)
		if err != nil {
			continue
		}

		val, err := it.Value()
		if err != nil {
			return nil, opErr(err, op)
		}
		n, ok := val.(viewCount)
		if !ok {
			continue
		}

		counts = append(counts, domain.ProductViewCount{
			ProductID: productID,
			Views:     int64(n),
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Views != counts[j].Views {
			return counts[i].Views > counts[j].Views
		}
		return counts[i].ProductID < counts[j].ProductID
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}
