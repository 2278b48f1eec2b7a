package observe

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/docql/internal/domain/query"
)

// ZapObserver logs hook points at debug level.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver creates an observer over the given logger.
func NewZapObserver(log *zap.Logger) *ZapObserver {
	return &ZapObserver{log: log}
}

// ParseStart implements Observer.
func (o *ZapObserver) ParseStart(text string) {
	o.log.Debug("parse start", zap.String("query", text))
}

// ParseEnd implements Observer.
func (o *ZapObserver) ParseEnd(q *query.ParsedQuery, err error) {
	if err != nil {
		o.log.Debug("parse failed", zap.Error(err))
		return
	}
	o.log.Debug("parse complete",
		zap.String("source", q.Source),
		zap.Int("projection_paths", len(q.Projection)),
		zap.Int("order_keys", len(q.OrderBy)),
		zap.Bool("has_where", q.Where != nil),
	)
}

// Predicate implements Observer.
func (o *ZapObserver) Predicate(docID string, match bool, err error) {
	if err != nil {
		o.log.Debug("predicate error",
			zap.String("doc_id", docID),
			zap.Error(err),
		)
		return
	}
	o.log.Debug("predicate",
		zap.String("doc_id", docID),
		zap.Bool("match", match),
	)
}

// Stage implements Observer.
func (o *ZapObserver) Stage(name string, in, out int) {
	o.log.Debug("stage",
		zap.String("stage", name),
		zap.Int("in", in),
		zap.Int("out", out),
	)
}
