package stream_test

import (
	"encoding/json"

	"github.com/killallgit/conduit/pkg/runs"
	"github.com/killallgit/conduit/pkg/stream"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	It("should classify a completed status object as End", func() {
		payload := json.RawMessage(`{"run_id":"r1","thread_id":"t1","status":"completed","output":{"x":1}}`)

		event, ok := stream.Classify(payload)

		Expect(ok).To(BeTrue())
		Expect(event.Kind).To(Equal(stream.KindEnd))
		Expect(event.Snapshot.RunID).To(Equal("r1"))
		Expect(event.Snapshot.Status).To(Equal(runs.StatusCompleted))
	})

	It("should classify a bare array as Messages", func() {
		payload := json.RawMessage(`[{"type":"AIMessageChunk","content":"hi"}]`)

		event, ok := stream.Classify(payload)

		Expect(ok).To(BeTrue())
		Expect(event.Kind).To(Equal(stream.KindMessages))
		Expect(event.Deltas).To(HaveLen(1))
		Expect(event.Deltas[0].Content).To(Equal("hi"))
	})

	It("should classify an object with a messages field as Values", func() {
		payload := json.RawMessage(`{"messages":[{"type":"human","content":"q"},{"type":"ai","content":"a"}]}`)

		event, ok := stream.Classify(payload)

		Expect(ok).To(BeTrue())
		Expect(event.Kind).To(Equal(stream.KindValues))
		Expect(event.Messages).To(HaveLen(2))
		Expect(event.Messages[1].Text()).To(Equal("a"))
	})

	It("should prefer End over Values when both shapes match", func() {
		payload := json.RawMessage(`{"status":"completed","messages":[{"type":"ai","content":"a"}]}`)

		event, ok := stream.Classify(payload)

		Expect(ok).To(BeTrue())
		Expect(event.Kind).To(Equal(stream.KindEnd))
	})

	It("should not classify a non-terminal status object without messages", func() {
		_, ok := stream.Classify(json.RawMessage(`{"status":"running"}`))

		Expect(ok).To(BeFalse())
	})

	It("should not classify unrecognized shapes", func() {
		for _, payload := range []string{`{"custom":"event"}`, `"just a string"`, `42`, `null`, `{}`} {
			_, ok := stream.Classify(json.RawMessage(payload))
			Expect(ok).To(BeFalse(), "payload %s should not classify", payload)
		}
	})
})
