package chat_test

import (
	"github.com/killallgit/conduit/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func human(text string) chat.Message {
	return chat.Message{Role: chat.RoleHuman, Parts: []chat.ContentPart{{Type: "text", Text: text}}}
}

func ai(text string) chat.Message {
	return chat.Message{Role: chat.RoleAI, Parts: []chat.ContentPart{{Type: "text", Text: text}}}
}

func tool(text string) chat.Message {
	return chat.Message{Role: chat.RoleTool, Parts: []chat.ContentPart{{Type: "text", Text: text}}}
}

var _ = Describe("NormalizeHistory", func() {
	It("should merge adjacent AI messages within the same speaker run", func() {
		input := []chat.Message{
			human("q1"),
			ai("a"),
			ai("b"),
			human("q2"),
			ai("c"),
		}

		result := chat.NormalizeHistory(input)

		Expect(result).To(HaveLen(4))
		Expect(result[0].Text()).To(Equal("q1"))
		Expect(result[1].Text()).To(Equal("ab"))
		Expect(result[1].Parts).To(HaveLen(2))
		Expect(result[2].Text()).To(Equal("q2"))
		Expect(result[3].Text()).To(Equal("c"))
	})

	It("should drop tool messages and empty AI messages", func() {
		input := []chat.Message{
			human("q"),
			tool("internal"),
			ai(""),
			ai("answer"),
		}

		result := chat.NormalizeHistory(input)

		Expect(result).To(HaveLen(2))
		Expect(result[0].IsHuman()).To(BeTrue())
		Expect(result[1].Text()).To(Equal("answer"))
	})

	It("should merge AI messages made adjacent by filtering", func() {
		input := []chat.Message{
			ai("a"),
			tool("scaffolding"),
			ai("b"),
		}

		result := chat.NormalizeHistory(input)

		Expect(result).To(HaveLen(1))
		Expect(result[0].Text()).To(Equal("ab"))
	})

	It("should preserve part order inside merged messages", func() {
		first := chat.Message{Role: chat.RoleAI, Parts: []chat.ContentPart{
			{Type: "text", Text: "1"},
			{Type: "text", Text: "2"},
		}}
		second := chat.Message{Role: chat.RoleAI, Parts: []chat.ContentPart{
			{Type: "text", Text: "3"},
		}}

		result := chat.NormalizeHistory([]chat.Message{first, second})

		Expect(result).To(HaveLen(1))
		Expect(result[0].Text()).To(Equal("123"))
	})

	It("should not merge human messages", func() {
		result := chat.NormalizeHistory([]chat.Message{human("a"), human("b")})

		Expect(result).To(HaveLen(2))
	})

	It("should handle empty history", func() {
		Expect(chat.NormalizeHistory(nil)).To(BeEmpty())
	})
})

var _ = Describe("ToTranscript", func() {
	It("should build finalized entries in order", func() {
		t := chat.ToTranscript([]chat.Message{human("q"), ai("a")})

		Expect(chat.Len(t)).To(Equal(2))
		Expect(chat.Messages(t)).To(HaveLen(2))
	})
})
