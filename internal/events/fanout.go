package events

import (
	"context"
	"errors"

	"github.com/oggyb/muzz-match/internal/metrics"
)

// Fanout publishes to several transports. One failing transport does not
// stop the others.
type Fanout struct {
	pubs []Publisher
}

func NewFanout(pubs ...Publisher) *Fanout {
	return &Fanout{pubs: pubs}
}

func (f *Fanout) Publish(ctx context.Context, ev MatchEvent) error {
	var errs []error
	for _, p := range f.pubs {
		err := p.Publish(ctx, ev)
		metrics.RecordPublish(p.Transport(), err)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) Transport() string { return "fanout" }
