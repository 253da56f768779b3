package chat_test

import (
	"github.com/killallgit/conduit/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Aggregator", func() {
	var aggregator *chat.Aggregator

	BeforeEach(func() {
		aggregator = chat.NewAggregator(chat.NewTranscript())
	})

	Describe("OnDeltas", func() {
		It("should accumulate content fragments into one pending entry", func() {
			aggregator.OnDeltas([]chat.Delta{{Content: "Hel"}})
			aggregator.OnDeltas([]chat.Delta{{Content: "lo"}})

			t := aggregator.Transcript()
			Expect(chat.Len(t)).To(Equal(1))
			pending, ok := chat.Pending(t)
			Expect(ok).To(BeTrue())
			Expect(pending.Text()).To(Equal("Hello"))
		})

		It("should leave the transcript unchanged on empty delta batches", func() {
			aggregator.OnDeltas(nil)
			aggregator.OnDeltas([]chat.Delta{})

			Expect(chat.Len(aggregator.Transcript())).To(Equal(0))
		})

		It("should record a tool call and clear it on the next content fragment", func() {
			aggregator.OnDeltas([]chat.Delta{
				{ToolCallChunks: []chat.ToolCallChunk{{Name: "search"}}},
			})

			name, active := aggregator.ActiveTool()
			Expect(active).To(BeTrue())
			Expect(name).To(Equal("search"))

			aggregator.OnDeltas([]chat.Delta{{Content: "result summary"}})

			_, active = aggregator.ActiveTool()
			Expect(active).To(BeFalse())
			Expect(aggregator.StreamingContent()).To(Equal("result summary"))
		})

		It("should never duplicate the pending entry across deltas in one turn", func() {
			aggregator.OnDeltas([]chat.Delta{{Content: "a"}, {Content: "b"}, {Content: "c"}})
			aggregator.OnDeltas([]chat.Delta{{Content: "d"}})

			t := aggregator.Transcript()
			pendingCount := 0
			for _, entry := range t.Entries {
				if entry.State == chat.EntryPending {
					pendingCount++
				}
			}
			Expect(pendingCount).To(Equal(1))

			pending, _ := chat.Pending(t)
			Expect(pending.Text()).To(Equal("abcd"))
		})
	})

	Describe("Finalize", func() {
		It("should replace the pending entry with a finalized message", func() {
			aggregator.AddUserMessage("question")
			aggregator.OnDeltas([]chat.Delta{{Content: "answer"}})
			aggregator.Finalize()

			t := aggregator.Transcript()
			Expect(chat.Len(t)).To(Equal(2))
			_, pending := chat.Pending(t)
			Expect(pending).To(BeFalse())

			last, ok := chat.LastMessage(t)
			Expect(ok).To(BeTrue())
			Expect(last.IsAI()).To(BeTrue())
			Expect(last.Text()).To(Equal("answer"))
			Expect(last.ID).NotTo(BeEmpty())
		})

		It("should add nothing when no content was streamed", func() {
			aggregator.Finalize()

			Expect(chat.Len(aggregator.Transcript())).To(Equal(0))
		})

		It("should clear the buffer and tool state", func() {
			aggregator.OnDeltas([]chat.Delta{
				{ToolCallChunks: []chat.ToolCallChunk{{Name: "search"}}},
			})
			aggregator.OnDeltas([]chat.Delta{{Content: "done"}})
			aggregator.Finalize()

			Expect(aggregator.StreamingContent()).To(BeEmpty())
			_, active := aggregator.ActiveTool()
			Expect(active).To(BeFalse())
		})
	})

	Describe("Abandon", func() {
		It("should drop the pending entry but keep finalized messages", func() {
			aggregator.AddUserMessage("question")
			aggregator.OnDeltas([]chat.Delta{{Content: "PARTIAL-"}})
			aggregator.Abandon()

			t := aggregator.Transcript()
			Expect(chat.Len(t)).To(Equal(1))
			_, pending := chat.Pending(t)
			Expect(pending).To(BeFalse())
			Expect(aggregator.StreamingContent()).To(BeEmpty())
		})

		It("should not mix abandoned fragments into the next turn's reply", func() {
			aggregator.OnDeltas([]chat.Delta{{Content: "PARTIAL-"}})
			aggregator.Abandon()

			aggregator.OnDeltas([]chat.Delta{{Content: "clean reply"}})
			aggregator.Finalize()

			last, ok := chat.LastMessage(aggregator.Transcript())
			Expect(ok).To(BeTrue())
			Expect(last.Text()).To(Equal("clean reply"))
		})
	})

	Describe("Reset", func() {
		It("should discard in-flight state without finalizing", func() {
			aggregator.OnDeltas([]chat.Delta{{Content: "stale"}})
			aggregator.Reset(chat.NewTranscript())

			Expect(chat.Len(aggregator.Transcript())).To(Equal(0))
			Expect(aggregator.StreamingContent()).To(BeEmpty())
		})
	})
})
