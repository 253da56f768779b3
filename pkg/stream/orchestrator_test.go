package stream_test

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/killallgit/conduit/pkg/chat"
	"github.com/killallgit/conduit/pkg/stream"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// chunkReader delivers its input in fixed-size pieces so chunk
// boundaries fall mid-line.
type chunkReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.size
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.pos:end])
	r.pos += n
	return n, nil
}

// failingReader yields some data and then a transport error.
type failingReader struct {
	data string
	err  error
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		return copy(p, r.data), nil
	}
	return 0, r.err
}

var _ = Describe("Orchestrator", func() {
	var (
		aggregator *chat.Aggregator
		events     []stream.Event
		completed  []chat.Transcript
		streamErrs []error
		handler    stream.HandlerFunc
	)

	BeforeEach(func() {
		aggregator = chat.NewAggregator(chat.NewTranscript())
		events = nil
		completed = nil
		streamErrs = nil
		handler = stream.HandlerFunc{
			EventFunc:    func(event stream.Event) { events = append(events, event) },
			CompleteFunc: func(t chat.Transcript) { completed = append(completed, t) },
			ErrorFunc:    func(err error) { streamErrs = append(streamErrs, err) },
		}
	})

	It("should fold a full run stream into one finalized AI message", func() {
		body := strings.Join([]string{
			`event: messages`,
			`data: [{"type":"AIMessageChunk","content":"The answer"}]`,
			``,
			`event: messages`,
			`data: [{"type":"AIMessageChunk","content":" is 42."}]`,
			``,
			`event: end`,
			`data: {"run_id":"r1","thread_id":"t1","status":"completed","output":{}}`,
			``,
		}, "\n")

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(context.Background(), &chunkReader{data: []byte(body), size: 7})

		Expect(err).NotTo(HaveOccurred())
		Expect(completed).To(HaveLen(1))
		Expect(streamErrs).To(BeEmpty())

		messages := chat.Messages(aggregator.Transcript())
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].IsAI()).To(BeTrue())
		Expect(messages[0].Text()).To(Equal("The answer is 42."))
		Expect(messages[0].ID).NotTo(BeEmpty())

		_, pending := chat.Pending(aggregator.Transcript())
		Expect(pending).To(BeFalse())
	})

	It("should process events strictly in arrival order", func() {
		body := `data: [{"type":"AIMessageChunk","content":"a"}]` + "\n" +
			`data: {"messages":[{"type":"ai","content":"a"}]}` + "\n" +
			`data: {"status":"completed"}` + "\n"

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(context.Background(), strings.NewReader(body))

		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(3))
		Expect(events[0].Kind).To(Equal(stream.KindMessages))
		Expect(events[1].Kind).To(Equal(stream.KindValues))
		Expect(events[2].Kind).To(Equal(stream.KindEnd))
	})

	It("should finalize from the buffer when the stream ends without an End frame", func() {
		body := `data: [{"type":"AIMessageChunk","content":"truncated reply"}]` + "\n"

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(context.Background(), strings.NewReader(body))

		Expect(err).NotTo(HaveOccurred())
		Expect(completed).To(HaveLen(1))

		messages := chat.Messages(aggregator.Transcript())
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Text()).To(Equal("truncated reply"))
	})

	It("should decode a final data line that has no trailing newline", func() {
		body := `data: [{"type":"AIMessageChunk","content":"tail"}]`

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(context.Background(), strings.NewReader(body))

		Expect(err).NotTo(HaveOccurred())
		messages := chat.Messages(aggregator.Transcript())
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Text()).To(Equal("tail"))
	})

	It("should skip malformed frames without interrupting the transcript", func() {
		body := `data: [{"type":"AIMessageChunk","content":"good"}]` + "\n" +
			`data: {broken` + "\n" +
			`data: {"status":"completed"}` + "\n"

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(context.Background(), strings.NewReader(body))

		Expect(err).NotTo(HaveOccurred())
		Expect(streamErrs).To(BeEmpty())
		messages := chat.Messages(aggregator.Transcript())
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Text()).To(Equal("good"))
	})

	It("should surface a transport error through OnError and stop", func() {
		transportErr := errors.New("connection reset")
		reader := &failingReader{
			data: `data: [{"type":"AIMessageChunk","content":"partial"}]` + "\n",
			err:  transportErr,
		}

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(context.Background(), reader)

		Expect(err).To(MatchError(transportErr))
		Expect(streamErrs).To(ConsistOf(transportErr))
		Expect(completed).To(BeEmpty())

		_, pending := chat.Pending(aggregator.Transcript())
		Expect(pending).To(BeFalse())
		Expect(aggregator.StreamingContent()).To(BeEmpty())
	})

	It("should not carry a failed turn's fragments into the next reply", func() {
		reader := &failingReader{
			data: `data: [{"type":"AIMessageChunk","content":"PARTIAL-"}]` + "\n",
			err:  errors.New("connection reset"),
		}
		orch := stream.NewOrchestrator("t1", aggregator, handler)
		Expect(orch.Consume(context.Background(), reader)).To(HaveOccurred())

		retryBody := `data: [{"type":"AIMessageChunk","content":"clean reply"}]` + "\n" +
			`data: {"status":"completed"}` + "\n"
		retry := stream.NewOrchestrator("t1", aggregator, handler)
		Expect(retry.Consume(context.Background(), strings.NewReader(retryBody))).To(Succeed())

		messages := chat.Messages(aggregator.Transcript())
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].Text()).To(Equal("clean reply"))
	})

	It("should stop consuming when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(ctx, strings.NewReader("data: {}\n"))

		Expect(err).To(MatchError(context.Canceled))
		Expect(completed).To(BeEmpty())
	})

	It("should ignore frames after the End event", func() {
		body := `data: {"status":"completed"}` + "\n" +
			`data: [{"type":"AIMessageChunk","content":"late"}]` + "\n"

		orch := stream.NewOrchestrator("t1", aggregator, handler)
		err := orch.Consume(context.Background(), strings.NewReader(body))

		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))
		Expect(chat.Messages(aggregator.Transcript())).To(BeEmpty())
	})
})
