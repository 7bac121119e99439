package eventlog

import "context"

// Worker drains records from a channel into a sink. It decouples record
// emission from slow backends (Postgres outbox, Kafka) without adding queue
// infrastructure to the components themselves.
type Worker struct {
	sink  Log
	inbox <-chan Record
}

func NewWorker(sink Log, inbox <-chan Record) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case record := <-w.inbox:
			if err := w.sink.Append(ctx, record); err != nil {
				return err
			}
		}
	}
}

// ChannelLog adapts a channel to the Log interface so services can emit into
// a Worker-drained pipeline. Append blocks when the channel is full, keeping
// backpressure visible rather than dropping records.
type ChannelLog struct {
	out chan<- Record
}

func NewChannelLog(out chan<- Record) *ChannelLog {
	return &ChannelLog{out: out}
}

func (c *ChannelLog) Append(ctx context.Context, record Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.out <- record:
		return nil
	}
}
