package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.ViewEventsProducer = (*ViewEventsProducer)(nil)

// A ViewEventsProducer emits one record per tracked product view, keyed
// by the product id so the count processor folds per product.
type ViewEventsProducer struct {
	opPrefix string
	cl       ProducerClient
	encoder  Encoder
}

func NewViewEventsProducer(
	opts ...ProducerOpt,
) (ViewEventsProducer, error) {
	const op = "NewViewEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ViewEventsProducer{}, opErr(err, op)
		}
	}

	return ViewEventsProducer{
		opPrefix: "ViewEventsProducer",
		cl:       options.cl,
		encoder:  options.encoder,
	}, nil
}

func (p ViewEventsProducer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p ViewEventsProducer) ProduceView(
	ctx context.Context, evt domain.ViewEvent,
) error {
	const op = "ProduceView"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(evt)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p ViewEventsProducer) createRecord(
	evt domain.ViewEvent,
) (*kgo.Record, error) {
	const op = "createRecord"

	s := viewEventToSchemaV1(evt)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: productKey(s.ProductID), Value: b}, nil
}
