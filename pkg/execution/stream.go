package execution

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/agentkit-go/core/pkg/agenterrors"
	"github.com/agentkit-go/core/pkg/eventbus"
	"github.com/agentkit-go/core/pkg/message"
	"github.com/agentkit-go/core/pkg/provider"
	"github.com/agentkit-go/core/pkg/session"
)

// errStreamStopped signals that the consumer stopped ranging over
// RunStream's sequence early (returned false from yield). It is an
// internal control-flow sentinel, never surfaced to the caller.
var errStreamStopped = errors.New("execution: stream consumer stopped")

// RunStream executes one turn in streaming mode: S1 differs from Run only
// in how the provider response is produced — chunks are yielded to the
// caller as they arrive, and content/tool-call fragments are reassembled
// by ID before S2 classifies the turn (spec.md §4.2). The sequence is
// non-restartable, mirroring the teacher's iter.Seq2[*Event, error]
// streaming idiom.
func (l *Loop) RunStream(ctx context.Context, sess *session.Session, userInput string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()

		l.pipeline.FireBeforeRun(ctx, userInput)
		l.publish(ctx, eventbus.ExecutionStart, sess, userInput)

		text, err := l.runStream(ctx, sess, userInput, yield)
		if err != nil {
			if errors.Is(err, errStreamStopped) {
				return
			}
			l.recorder.RecordTurnError(l.agentName, errorKindOf(err))
			l.pipeline.FireOnError(ctx, err)
			l.publish(ctx, eventbus.ExecutionError, sess, err.Error())
			yield("", err)
			return
		}

		l.recorder.RecordTurn(l.agentName, time.Since(start))
		l.pipeline.FireAfterRun(ctx, text)
		l.publish(ctx, eventbus.ExecutionComplete, sess, text)
	}
}

func (l *Loop) runStream(ctx context.Context, sess *session.Session, userInput string, yield func(string, error) bool) (string, error) {
	sess.Append(message.NewUser(userInput))

	turns := 0
	for {
		if err := checkCancelled(ctx); err != nil {
			return "", err
		}

		messages := sess.Messages()
		l.pipeline.FireBeforeProviderCall(ctx, messages)

		resp, err := l.callProviderStream(ctx, messages, yield)
		turns++
		if err != nil {
			return "", err
		}
		l.pipeline.FireAfterProviderCall(ctx, resp)

		if !resp.HasToolCalls() {
			sess.Append(resp)
			return resp.Text(), nil
		}

		sess.Append(resp)
		if err := l.executeToolCalls(ctx, sess, resp.ToolCalls); err != nil {
			return "", err
		}

		if turns >= l.maxToolTurns {
			final := "tool budget exhausted"
			sess.Append(message.NewAssistantText(final))
			if !yield(final, nil) {
				return "", errStreamStopped
			}
			return final, nil
		}
	}
}

// callProviderStream performs one streaming S1 Call Provider step: it
// ranges over the provider's chunk sequence, yielding text deltas to the
// caller immediately and accumulating tool-call fragments by ID, then
// assembles the complete assistant message S2 classifies on.
func (l *Loop) callProviderStream(ctx context.Context, messages []message.Message, yield func(string, error) bool) (message.Message, error) {
	opts := l.buildOptions()

	spanCtx, span := l.tracer.StartProviderCall(ctx, l.providerName)
	defer span.End()

	start := time.Now()
	acc := newChunkAccumulator()
	var streamErr error
	var stopped bool

	for chunk, err := range l.provider.ChatStream(spanCtx, messages, opts) {
		if err != nil {
			streamErr = err
			break
		}
		switch chunk.Kind {
		case provider.ChunkText:
			if chunk.Text == "" {
				continue
			}
			acc.addText(chunk.Text)
			if !yield(chunk.Text, nil) {
				stopped = true
			}
		case provider.ChunkToolCall:
			acc.addToolCallFragment(chunk.ToolCallID, chunk.ToolCallName, chunk.ToolCallArgsDelta)
		case provider.ChunkDone:
			// fall through to loop exit below
		}
		if stopped || chunk.Kind == provider.ChunkDone {
			break
		}
	}

	l.recorder.RecordProviderCall(l.providerName, time.Since(start))

	if stopped {
		return message.Message{}, errStreamStopped
	}
	if streamErr != nil {
		l.recorder.RecordProviderError(l.providerName, "chat_stream_failed")
		return message.Message{}, agenterrors.Provider("provider chat stream failed", streamErr)
	}
	return acc.build(), nil
}

// chunkAccumulator reassembles a streamed provider turn's text and
// tool-call fragments by ID before S2 Classify runs (spec.md §4.3).
type chunkAccumulator struct {
	text  strings.Builder
	order []string
	calls map[string]*accumulatingCall
}

type accumulatingCall struct {
	name string
	args strings.Builder
}

func newChunkAccumulator() *chunkAccumulator {
	return &chunkAccumulator{calls: make(map[string]*accumulatingCall)}
}

func (a *chunkAccumulator) addText(s string) {
	a.text.WriteString(s)
}

func (a *chunkAccumulator) addToolCallFragment(id, name, argsDelta string) {
	c, ok := a.calls[id]
	if !ok {
		c = &accumulatingCall{}
		a.calls[id] = c
		a.order = append(a.order, id)
	}
	if name != "" {
		c.name = name
	}
	c.args.WriteString(argsDelta)
}

func (a *chunkAccumulator) build() message.Message {
	if len(a.order) == 0 {
		return message.NewAssistantText(a.text.String())
	}

	calls := make([]message.ToolCall, 0, len(a.order))
	for _, id := range a.order {
		c := a.calls[id]
		calls = append(calls, message.ToolCall{
			ID:   id,
			Kind: "function",
			Function: message.ToolCallFunction{
				Name:          c.name,
				ArgumentsJSON: c.args.String(),
			},
		})
	}

	var content *string
	if s := a.text.String(); s != "" {
		content = &s
	}
	return message.NewAssistantToolCalls(content, calls)
}
