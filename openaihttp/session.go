package openaihttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leslieo2/coze2openai/coze"
	log "github.com/sirupsen/logrus"
)

var errEmitterClosed = errors.New("sse emitter closed")

var doneFrame = []byte("data: [DONE]\n\n")

// sseEmitter 把对象编码为 `data: <json>\n\n` 帧写给调用方，每帧写完立即 flush。
// 写入 [DONE] 或任何一次写失败后进入关闭状态，之后的 Emit/Terminate 都返回 errEmitterClosed。
type sseEmitter struct {
	w       io.Writer
	flusher http.Flusher
	closed  bool
}

func newSSEEmitter(w http.ResponseWriter) (*sseEmitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	return &sseEmitter{w: w, flusher: flusher}, nil
}

func (e *sseEmitter) Emit(v any) error {
	if e.closed {
		return errEmitterClosed
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode sse frame: %w", err)
	}
	frame := make([]byte, 0, len(data)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, data...)
	frame = append(frame, "\n\n"...)
	return e.write(frame)
}

func (e *sseEmitter) Terminate() error {
	if e.closed {
		return errEmitterClosed
	}
	err := e.write(doneFrame)
	e.closed = true
	return err
}

func (e *sseEmitter) Closed() bool {
	return e.closed
}

func (e *sseEmitter) write(frame []byte) error {
	if _, err := e.w.Write(frame); err != nil {
		e.closed = true
		return err
	}
	e.flush()
	return nil
}

func (e *sseEmitter) flush() {
	if e.flusher != nil {
		e.flusher.Flush()
	}
}

type sessionState int

const (
	stateInit sessionState = iota
	stateStreaming
	stateDone
	stateError
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateStreaming:
		return "streaming"
	case stateDone:
		return "done"
	case stateError:
		return "error"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// streamSession 驱动一次流式翻译：从上游拉取事件、翻译、写出，直到终止事件、上游结束、
// 失败或调用方断开。run 返回时上游 body 已关闭。
type streamSession struct {
	events     *coze.EventStream
	emitter    *sseEmitter
	translator coze.Translator
	state      sessionState
	// terminal 记录进入 CLOSED 之前的最后状态。
	terminal sessionState
	// conversationID 是上游事件携带的最近一个 conversation_id，用于日志。
	conversationID string
}

func newStreamSession(events *coze.EventStream, emitter *sseEmitter, translator coze.Translator) *streamSession {
	return &streamSession{
		events:     events,
		emitter:    emitter,
		translator: translator,
		state:      stateInit,
		terminal:   stateInit,
	}
}

func (s *streamSession) run(ctx context.Context) error {
	defer s.close()
	s.state = stateStreaming

	for {
		ev, err := s.events.Next(ctx)
		if err != nil {
			return s.finish(ctx, err)
		}

		if ev.ConversationID != "" {
			s.conversationID = ev.ConversationID
		}

		tr := s.translator.Translate(ev)
		if tr.Empty() {
			continue
		}
		if tr.Chunk != nil {
			if err := s.emitter.Emit(tr.Chunk); err != nil {
				return err
			}
		}
		if tr.Error != nil {
			s.state = stateError
			log.WithFields(log.Fields{
				"conversation_id": s.conversationID,
				"event":           truncateLog(string(ev.Raw), 512),
			}).Warn("coze stream returned error event")
			if err := s.emitter.Emit(tr.Error); err != nil {
				return err
			}
		}
		if tr.Terminate {
			if s.state == stateStreaming {
				s.state = stateDone
			}
			return s.emitter.Terminate()
		}
	}
}

func (s *streamSession) finish(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) {
		// 上游没有发送 done/error 就结束：只写 [DONE]。
		s.state = stateDone
		return s.emitter.Terminate()
	}
	if ctx.Err() != nil {
		// 调用方已断开，不再写任何内容。
		return ctx.Err()
	}

	s.state = stateError
	if emitErr := s.emitter.Emit(coze.NewStreamError(err.Error())); emitErr != nil {
		return errors.Join(err, emitErr)
	}
	if termErr := s.emitter.Terminate(); termErr != nil {
		return errors.Join(err, termErr)
	}
	return err
}

func (s *streamSession) close() {
	if s.state == stateClosed {
		return
	}
	s.terminal = s.state
	s.state = stateClosed
	if err := s.events.Close(); err != nil {
		log.WithError(err).Debug("close coze stream body")
	}
}

func truncateLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
