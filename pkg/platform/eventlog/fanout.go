package eventlog

import "context"

// Fanout appends each record to every sink in order. The first failing sink
// aborts the append; sinks after it never see the record.
type Fanout struct {
	sinks []Log
}

func NewFanout(sinks ...Log) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Append(ctx context.Context, record Record) error {
	for _, sink := range f.sinks {
		if err := sink.Append(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
