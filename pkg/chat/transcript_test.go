package chat_test

import (
	"github.com/killallgit/conduit/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transcript", func() {
	Describe("SetPending", func() {
		It("should append a pending entry when none exists", func() {
			t := chat.NewTranscript()
			t = chat.SetPending(t, "partial")

			Expect(chat.Len(t)).To(Equal(1))
			pending, ok := chat.Pending(t)
			Expect(ok).To(BeTrue())
			Expect(pending.Text()).To(Equal("partial"))
			Expect(pending.ID).To(BeEmpty())
		})

		It("should replace the existing pending entry in place", func() {
			t := chat.NewTranscript()
			t = chat.Append(t, chat.NewHumanMessage("hi"))
			t = chat.SetPending(t, "par")
			t = chat.SetPending(t, "partial")
			t = chat.SetPending(t, "partial answer")

			Expect(chat.Len(t)).To(Equal(2))
			pending, ok := chat.Pending(t)
			Expect(ok).To(BeTrue())
			Expect(pending.Text()).To(Equal("partial answer"))
		})
	})

	Describe("DropPending", func() {
		It("should remove only the pending entry", func() {
			t := chat.NewTranscript()
			t = chat.Append(t, chat.NewHumanMessage("hi"))
			t = chat.SetPending(t, "partial")
			t = chat.DropPending(t)

			Expect(chat.Len(t)).To(Equal(1))
			_, ok := chat.Pending(t)
			Expect(ok).To(BeFalse())
		})

		It("should be a no-op when nothing is pending", func() {
			t := chat.NewTranscript()
			t = chat.Append(t, chat.NewHumanMessage("hi"))

			Expect(chat.Len(chat.DropPending(t))).To(Equal(1))
		})
	})

	Describe("Messages", func() {
		It("should exclude the pending entry", func() {
			t := chat.NewTranscript()
			t = chat.Append(t, chat.NewHumanMessage("hi"))
			t = chat.SetPending(t, "partial")

			Expect(chat.Messages(t)).To(HaveLen(1))
		})
	})
})
