package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"

	"github.com/greencart/ecostore/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A viewEventCodec used for serde [schema.ClientViewEventV1]
type viewEventCodec struct {
	serde Serde
}

func newViewEventCodec(s Serde) viewEventCodec {
	return viewEventCodec{s}
}

func (c viewEventCodec) Encode(v any) ([]byte, error) {
	const op = "viewEventCodec.Encode"
	if _, ok := v.(schema.ClientViewEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c viewEventCodec) Decode(data []byte) (any, error) {
	const op = "viewEventCodec.Decode"
	var s schema.ClientViewEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A viewCount is the accumulated number of views for one product
type viewCount int64

// A viewCountCodec used for serde [viewCount]
type viewCountCodec struct{}

func (viewCountCodec) Encode(v any) ([]byte, error) {
	const op = "viewCountCodec.Encode"
	n, ok := v.(viewCount)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	data := strconv.AppendInt([]byte(nil), int64(n), 10)
	return data, nil
}

func (viewCountCodec) Decode(data []byte) (any, error) {
	const op = "viewCountCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return viewCount(n), nil
}

// A ViewCountProcessor folds view events from the stream topic into
// per-product totals in the group table.
type ViewCountProcessor struct {
	opPrefix string
	proc     processor
}

func NewViewCountProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	viewEventSerde Serde,
) (*ViewCountProcessor, error) {
	const op = "NewViewCountProcessor"

	var p ViewCountProcessor
	p.opPrefix = "ViewCountProcessor"

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			newViewEventCodec(viewEventSerde),
			p.processFn,
		),
		goka.Persist(viewCountCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *ViewCountProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *ViewCountProcessor) Close() {
	p.proc.close()
}

func (p *ViewCountProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	event, _ := msg.(schema.ClientViewEventV1)

	var current viewCount
	if v := ctx.Value(); v != nil {
		current, _ = v.(viewCount)
	}
	current++
	ctx.SetValue(current)

	log.Info(
		"counted view",
		"productID", event.ProductID,
		"views", int64(current),
	)
}
