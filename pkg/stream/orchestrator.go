package stream

import (
	"context"
	"io"

	"github.com/killallgit/conduit/pkg/chat"
	"github.com/killallgit/conduit/pkg/logger"
)

// Handler receives the orchestrator's external notifications.
type Handler interface {
	// OnEvent is called for every classified stream event, after the
	// aggregator has folded it in.
	OnEvent(event Event)

	// OnComplete is called once when the stream finishes, with the
	// finalized transcript.
	OnComplete(transcript chat.Transcript)

	// OnError is called when a transport error ends the stream.
	OnError(err error)
}

// HandlerFunc is a function adapter for Handler
type HandlerFunc struct {
	EventFunc    func(event Event)
	CompleteFunc func(transcript chat.Transcript)
	ErrorFunc    func(err error)
}

// OnEvent implements Handler
func (h HandlerFunc) OnEvent(event Event) {
	if h.EventFunc != nil {
		h.EventFunc(event)
	}
}

// OnComplete implements Handler
func (h HandlerFunc) OnComplete(transcript chat.Transcript) {
	if h.CompleteFunc != nil {
		h.CompleteFunc(transcript)
	}
}

// OnError implements Handler
func (h HandlerFunc) OnError(err error) {
	if h.ErrorFunc != nil {
		h.ErrorFunc(err)
	}
}

// Orchestrator consumes one live run stream for one thread, wiring the
// frame decoder through the classifier into the aggregator. A thread
// view owns exactly one orchestrator at a time; switching threads means
// tearing this one down and constructing a new one. Serializing run
// creation per thread is the caller's responsibility.
type Orchestrator struct {
	threadID   string
	decoder    *FrameDecoder
	aggregator *chat.Aggregator
	handler    Handler
	done       bool
}

func NewOrchestrator(threadID string, aggregator *chat.Aggregator, handler Handler) *Orchestrator {
	return &Orchestrator{
		threadID:   threadID,
		decoder:    NewFrameDecoder(),
		aggregator: aggregator,
		handler:    handler,
	}
}

// Consume reads the stream body until exhaustion or a transport error.
// Events are processed strictly in arrival order. A stream that ends
// without an End frame still finalizes the in-flight response from
// whatever was buffered; a stream that ends in an error or a cancelled
// context discards it instead.
func (o *Orchestrator) Consume(ctx context.Context, body io.Reader) error {
	log := logger.WithComponent("stream_orchestrator")
	log.Debug("consuming run stream", "thread_id", o.threadID)

	buf := make([]byte, 8192)
	for {
		select {
		case <-ctx.Done():
			log.Debug("stream consumption cancelled", "thread_id", o.threadID)
			o.aggregator.Abandon()
			return ctx.Err()
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, payload := range o.decoder.Feed(buf[:n]) {
				o.dispatch(payload)
			}
		}

		if err == io.EOF {
			for _, payload := range o.decoder.Flush() {
				o.dispatch(payload)
			}
			o.complete()
			return nil
		}
		if err != nil {
			log.Error("stream read failed", "thread_id", o.threadID, "error", err)
			o.aggregator.Abandon()
			o.handler.OnError(err)
			return err
		}
	}
}

// dispatch folds one classified event into the aggregator and notifies
// the handler. Unrecognized payload shapes are ignored.
func (o *Orchestrator) dispatch(payload []byte) {
	if o.done {
		return
	}

	event, ok := Classify(payload)
	if !ok {
		return
	}

	switch event.Kind {
	case KindMessages:
		o.aggregator.OnDeltas(event.Deltas)
	case KindEnd:
		o.aggregator.Finalize()
		o.done = true
	}

	o.handler.OnEvent(event)
}

// complete ends the streaming turn. If no End frame arrived the pending
// response is finalized from the buffer before notifying the handler.
func (o *Orchestrator) complete() {
	if !o.done {
		o.aggregator.Finalize()
		o.done = true
	}
	o.handler.OnComplete(o.aggregator.Transcript())
}
