package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/killallgit/conduit/pkg/api"
	"github.com/killallgit/conduit/pkg/chat"
	"github.com/killallgit/conduit/pkg/config"
	"github.com/killallgit/conduit/pkg/controllers"
	"github.com/killallgit/conduit/pkg/logger"
	"github.com/killallgit/conduit/pkg/runs"
	"github.com/killallgit/conduit/pkg/stream"
	"github.com/spf13/cobra"
)

var (
	chatAgentID  string
	chatThreadID string
	chatPoll     bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with an agent",
	Long: `Opens an interactive chat loop against one agent. Each input line
starts a run on the active thread and streams the reply. Type /switch
<thread-id> to move to another thread, /quit to exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatAgentID, "agent", "", "assistant id to chat with")
	chatCmd.Flags().StringVar(&chatThreadID, "thread", "", "existing thread id (a new thread is created when omitted)")
	chatCmd.Flags().BoolVar(&chatPoll, "poll", false, "poll run status instead of streaming")
	_ = chatCmd.MarkFlagRequired("agent")

	rootCmd.AddCommand(chatCmd)
}

// chatSession owns the state for one open thread view. Switching
// threads tears the whole session down and builds a fresh one, so a
// stale stream's late events can never reach the new transcript.
type chatSession struct {
	client     *api.Client
	agentID    string
	threadID   string
	aggregator *chat.Aggregator
}

func runChat(ctx context.Context) error {
	client := newAPIClient()

	session, err := openSession(ctx, client, chatAgentID, chatThreadID)
	if err != nil {
		return err
	}
	fmt.Printf("Thread %s (agent %s)\n", session.threadID, session.agentID)
	controllers.RenderTranscript(os.Stdout, session.aggregator.Transcript())

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "/quit":
			session.teardown()
			return nil
		case strings.HasPrefix(line, "/switch "):
			threadID := strings.TrimSpace(strings.TrimPrefix(line, "/switch "))
			session.teardown()
			session, err = openSession(ctx, client, chatAgentID, threadID)
			if err != nil {
				return err
			}
			fmt.Printf("Switched to thread %s\n", session.threadID)
			controllers.RenderTranscript(os.Stdout, session.aggregator.Transcript())
		default:
			if err := session.send(ctx, line); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
		fmt.Print("> ")
	}
	session.teardown()
	return scanner.Err()
}

// openSession loads or creates the thread and primes a fresh aggregator
// with its normalized history.
func openSession(ctx context.Context, client *api.Client, agentID, threadID string) (*chatSession, error) {
	if threadID == "" {
		graphID, err := resolveGraphID(ctx, client, agentID)
		if err != nil {
			return nil, err
		}
		thread, err := client.CreateThread(ctx, graphID, agentID)
		if err != nil {
			return nil, err
		}
		threadID = thread.ThreadID
	}

	messages, err := client.LatestMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}
	transcript := chat.ToTranscript(chat.NormalizeHistory(messages))

	return &chatSession{
		client:     client,
		agentID:    agentID,
		threadID:   threadID,
		aggregator: chat.NewAggregator(transcript),
	}, nil
}

// resolveGraphID looks up which graph an assistant runs on; new threads
// must be created against it.
func resolveGraphID(ctx context.Context, client *api.Client, agentID string) (string, error) {
	assistants, err := client.ListAssistants(ctx)
	if err != nil {
		return "", err
	}
	for _, assistant := range assistants {
		if assistant.AssistantID == agentID {
			return assistant.GraphID, nil
		}
	}
	return "", fmt.Errorf("unknown agent %q", agentID)
}

// send runs one turn: user input in, streamed (or polled) reply out.
func (s *chatSession) send(ctx context.Context, input string) error {
	s.aggregator.AddUserMessage(input)

	if chatPoll {
		return s.sendPolling(ctx, input)
	}
	return s.sendStreaming(ctx, input)
}

func (s *chatSession) sendStreaming(ctx context.Context, input string) error {
	body, err := s.client.StreamRun(ctx, s.threadID, s.agentID, input)
	if err != nil {
		return err
	}
	defer body.Close()

	fmt.Print("agent> ")
	handler := stream.HandlerFunc{
		EventFunc: func(event stream.Event) {
			if event.Kind != stream.KindMessages {
				return
			}
			for _, delta := range event.Deltas {
				fmt.Print(delta.Content)
			}
		},
		CompleteFunc: func(transcript chat.Transcript) {
			fmt.Println()
		},
		ErrorFunc: func(err error) {
			fmt.Fprintf(os.Stderr, "\nStream error: %v\n", err)
		},
	}

	orchestrator := stream.NewOrchestrator(s.threadID, s.aggregator, handler)
	return orchestrator.Consume(ctx, body)
}

func (s *chatSession) sendPolling(ctx context.Context, input string) error {
	snapshot, err := s.client.CreateRun(ctx, s.threadID, s.agentID, input)
	if err != nil {
		return err
	}

	poller := runs.NewPoller(s.client.GetRun, config.Get().Polling.Interval)
	final, err := poller.Poll(ctx, s.threadID, snapshot.RunID, func(snap runs.Snapshot) {
		logger.Debug("Run %s status: %s", snap.RunID, snap.Status)
	})
	if err != nil {
		return err
	}

	// The polled run's reply lands in the persisted history, not on a
	// live stream; refresh the transcript from there.
	messages, err := s.client.LatestMessages(ctx, s.threadID)
	if err != nil {
		return err
	}
	s.aggregator.Reset(chat.ToTranscript(chat.NormalizeHistory(messages)))

	if last, ok := chat.LastMessage(s.aggregator.Transcript()); ok && last.IsAI() {
		controllers.RenderMessage(os.Stdout, last)
	}
	logger.Debug("Run %s finished with status %s", final.RunID, final.Status)
	return nil
}

// teardown discards all in-flight state for the session's thread.
// Sends are synchronous, so no stream can still be live here.
func (s *chatSession) teardown() {
	s.aggregator.Reset(chat.NewTranscript())
}
