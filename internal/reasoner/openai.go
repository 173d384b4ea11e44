package reasoner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultPollInterval = time.Second
	defaultRunTimeout   = 90 * time.Second
)

// Assistant adapts *openai.Client to the Client interface using the
// assistant-thread API with the file_search tool.
type Assistant struct {
	Inner       *openai.Client
	AssistantID string
	// PollInterval is the run-status poll cadence. Zero means one second.
	PollInterval time.Duration
	// RunTimeout bounds the whole run. Zero means 90 seconds.
	RunTimeout time.Duration
}

func (a *Assistant) UploadFile(ctx context.Context, filename string, data []byte) (string, error) {
	f, err := a.Inner.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    filename,
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	log.Debug().Str("file", f.ID).Str("name", filename).Msg("uploaded document")
	return f.ID, nil
}

func (a *Assistant) CreateThread(ctx context.Context) (string, error) {
	th, err := a.Inner.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return th.ID, nil
}

// Ask posts the user message, runs the assistant, polls until the run reaches
// a terminal state or the timeout budget runs out, and reads back the newest
// message. Anything short of a completed run is ErrUpstream.
func (a *Assistant) Ask(ctx context.Context, threadID, question string, fileIDs []string) (Response, error) {
	content := question
	if content == "" {
		content = "Please analyze the file(s)."
	}
	var attachments []openai.ThreadAttachment
	for _, id := range fileIDs {
		attachments = append(attachments, openai.ThreadAttachment{
			FileID: id,
			Tools:  []openai.ThreadAttachmentTool{{Type: "file_search"}},
		})
	}
	if _, err := a.Inner.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:        openai.ChatMessageRoleUser,
		Content:     content,
		Attachments: attachments,
	}); err != nil {
		return Response{}, fmt.Errorf("%w: post message: %v", ErrUpstream, err)
	}

	run, err := a.Inner.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: a.AssistantID})
	if err != nil {
		return Response{}, fmt.Errorf("%w: create run: %v", ErrUpstream, err)
	}
	if err := a.waitForRun(ctx, threadID, run.ID); err != nil {
		return Response{}, err
	}
	return a.newestMessage(ctx, threadID)
}

func (a *Assistant) waitForRun(ctx context.Context, threadID, runID string) error {
	interval := a.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	budget := a.RunTimeout
	if budget <= 0 {
		budget = defaultRunTimeout
	}
	deadline := time.Now().Add(budget)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
		case <-time.After(interval):
		}
		run, err := a.Inner.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			return fmt.Errorf("%w: retrieve run: %v", ErrUpstream, err)
		}
		switch run.Status {
		case openai.RunStatusCompleted:
			return nil
		case openai.RunStatusFailed, openai.RunStatusCancelled,
			openai.RunStatusExpired, openai.RunStatusRequiresAction:
			log.Warn().Str("status", string(run.Status)).Msg("run ended without completing")
			return fmt.Errorf("%w: run status %s", ErrUpstream, run.Status)
		}
		if time.Now().After(deadline) {
			log.Warn().Str("thread", threadID).Msg("run timed out")
			return fmt.Errorf("%w: run timed out", ErrUpstream)
		}
	}
}

func (a *Assistant) newestMessage(ctx context.Context, threadID string) (Response, error) {
	limit := 1
	order := "desc"
	msgs, err := a.Inner.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: list messages: %v", ErrUpstream, err)
	}
	if len(msgs.Messages) == 0 {
		return Response{Answer: "No response produced."}, nil
	}

	var res Response
	for _, part := range msgs.Messages[0].Content {
		if part.Type != "text" || part.Text == nil {
			continue
		}
		if res.Answer != "" {
			res.Answer += "\n"
		}
		res.Answer += part.Text.Value
		res.Annotations = append(res.Annotations, part.Text.Annotations...)
	}
	if res.Answer == "" {
		res.Answer = "No text response."
	}
	return res, nil
}
