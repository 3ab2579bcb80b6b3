package ranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.Ranker = (*ProcessRanker)(nil)

// ProcessRanker spawns the delegate command once per request, writes the
// request JSON to its stdin and reads the ranked array from its stdout.
// Any spawn, exit or decode failure surfaces as ErrRankerUnavailable so
// the caller can fall back.
type ProcessRanker struct {
	command string
	args    []string
}

func NewProcessRanker(command string, args ...string) ProcessRanker {
	return ProcessRanker{command: command, args: args}
}

func (r ProcessRanker) Rank(
	ctx context.Context, req domain.RankRequest,
) ([]domain.RankedProduct, error) {
	const op = "ProcessRanker.Rank"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := json.Marshal(toWireRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cmd := exec.CommandContext(ctx, r.command, r.args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Warn("ranker process failed",
			"err", err, "stderr", stderr.String())
		return nil, fmt.Errorf(
			"%s: %w: %s", op, domain.ErrRankerUnavailable, err,
		)
	}

	var ws []wireProduct
	if err := json.Unmarshal(stdout.Bytes(), &ws); err != nil {
		log.Warn("ranker process wrote malformed output", "err", err)
		return nil, fmt.Errorf(
			"%s: %w: %s", op, domain.ErrRankerUnavailable, err,
		)
	}

	return fromWireProducts(req.Candidates, ws), nil
}
