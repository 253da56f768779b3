package controllers

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/conduit/pkg/chat"
)

var (
	humanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	aiStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)
)

// RenderTranscript writes the conversation to the writer, one labeled
// block per entry. The pending entry, if any, renders dimmed with a
// cursor marker.
func RenderTranscript(writer io.Writer, transcript chat.Transcript) {
	for _, entry := range transcript.Entries {
		if entry.State == chat.EntryPending {
			fmt.Fprintf(writer, "%s %s\n", aiStyle.Render("agent>"), pendingStyle.Render(entry.Message.Text()+" ▌"))
			continue
		}
		RenderMessage(writer, entry.Message)
	}
}

// RenderMessage writes one finalized message.
func RenderMessage(writer io.Writer, msg chat.Message) {
	label := roleLabel(msg.Role)
	fmt.Fprintf(writer, "%s %s\n", label, msg.Text())
}

func roleLabel(role string) string {
	switch role {
	case chat.RoleHuman:
		return humanStyle.Render("you>")
	case chat.RoleAI:
		return aiStyle.Render("agent>")
	default:
		return role + ">"
	}
}
