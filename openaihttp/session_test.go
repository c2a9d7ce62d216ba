package openaihttp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leslieo2/coze2openai/coze"
	"github.com/stretchr/testify/require"
)

type scriptedBody struct {
	chunks []string
	err    error
	closed bool
}

func (b *scriptedBody) Read(p []byte) (int, error) {
	if len(b.chunks) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	b.chunks[0] = b.chunks[0][n:]
	if b.chunks[0] == "" {
		b.chunks = b.chunks[1:]
	}
	return n, nil
}

func (b *scriptedBody) Close() error {
	b.closed = true
	return nil
}

type brokenWriter struct {
	header http.Header
	writes int
}

func (w *brokenWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func (w *brokenWriter) WriteHeader(int) {}

func (w *brokenWriter) Flush() {}

func testTranslator() coze.Translator {
	return coze.Translator{
		Model: "coze",
		NewID: func() string { return "chatcmpl-test" },
		Now:   func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestSSEEmitter_TerminateClosesEmitter(t *testing.T) {
	w := httptest.NewRecorder()
	e, err := newSSEEmitter(w)
	require.NoError(t, err)

	require.NoError(t, e.Emit(map[string]string{"a": "b"}))
	require.NoError(t, e.Terminate())
	require.True(t, e.Closed())

	require.ErrorIs(t, e.Emit(map[string]string{"c": "d"}), errEmitterClosed)
	require.ErrorIs(t, e.Terminate(), errEmitterClosed)
	require.Equal(t, "data: {\"a\":\"b\"}\n\ndata: [DONE]\n\n", w.Body.String())
	require.True(t, w.Flushed)
}

func TestSSEEmitter_WriteErrorClosesEmitter(t *testing.T) {
	w := &brokenWriter{}
	e, err := newSSEEmitter(w)
	require.NoError(t, err)

	require.Error(t, e.Emit(map[string]string{"a": "b"}))
	require.True(t, e.Closed())
	require.ErrorIs(t, e.Terminate(), errEmitterClosed)
	require.Equal(t, 1, w.writes)
}

func TestStreamSession_ClientDisconnectWritesNothing(t *testing.T) {
	body := &scriptedBody{chunks: []string{"data: {\"event\":\"done\"}\n"}}
	w := httptest.NewRecorder()
	e, err := newSSEEmitter(w)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newStreamSession(coze.NewEventStream(body), e, testTranslator())
	err = s.run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, w.Body.String())
	require.True(t, body.closed)
	require.Equal(t, stateClosed, s.state)
	require.Equal(t, stateStreaming, s.terminal)
}

func TestStreamSession_TransportFailureInBand(t *testing.T) {
	body := &scriptedBody{
		chunks: []string{`data: {"event":"message","message":{"role":"assistant","type":"answer","content":"Hi"}}` + "\n"},
		err:    errors.New("connection reset"),
	}
	w := httptest.NewRecorder()
	e, err := newSSEEmitter(w)
	require.NoError(t, err)

	s := newStreamSession(coze.NewEventStream(body), e, testTranslator())
	err = s.run(context.Background())

	require.EqualError(t, err, "connection reset")
	require.Equal(t, stateError, s.terminal)
	require.True(t, body.closed)
	require.Equal(t,
		`data: {"id":"chatcmpl-test","object":"chat.completion.chunk","created":1700000000,"model":"coze","choices":[{"index":0,"delta":{"content":"Hi"},"finish_reason":null}]}`+"\n\n"+
			`data: {"error":{"error":"Unexpected response from Coze API.","message":"connection reset"}}`+"\n\n"+
			"data: [DONE]\n\n",
		w.Body.String(),
	)
}

func TestStreamSession_LineTooLong(t *testing.T) {
	body := &scriptedBody{chunks: []string{"data: " + strings.Repeat("x", coze.MaxLineBytes+1)}}
	w := httptest.NewRecorder()
	e, err := newSSEEmitter(w)
	require.NoError(t, err)

	s := newStreamSession(coze.NewEventStream(body), e, testTranslator())
	err = s.run(context.Background())

	require.ErrorIs(t, err, coze.ErrLineTooLong)
	require.Equal(t, stateError, s.terminal)
	require.True(t, strings.HasSuffix(w.Body.String(), "data: [DONE]\n\n"))
	require.Contains(t, w.Body.String(), coze.ErrLineTooLong.Error())
}

func TestStreamSession_DoneAndErrorStates(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		state sessionState
	}{
		{name: "done", body: "data: {\"event\":\"done\"}\n\n", state: stateDone},
		{name: "error", body: "data: {\"event\":\"error\",\"error_information\":{\"err_msg\":\"x\"}}\n\n", state: stateError},
		{name: "eof", body: "event: ping\n\n", state: stateDone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := &scriptedBody{chunks: []string{tc.body}}
			e, err := newSSEEmitter(httptest.NewRecorder())
			require.NoError(t, err)

			s := newStreamSession(coze.NewEventStream(body), e, testTranslator())
			require.NoError(t, s.run(context.Background()))
			require.Equal(t, tc.state, s.terminal)
			require.Equal(t, "closed", s.state.String())
			require.True(t, e.Closed())
		})
	}
}

func TestStreamSession_TracksConversationID(t *testing.T) {
	body := &scriptedBody{chunks: []string{
		`data: {"event":"message","message":{"role":"assistant","type":"answer","content":"Hi"},"conversation_id":"conv_1"}` + "\n",
		`data: {"event":"error","error_information":{"err_msg":"x"}}` + "\n",
	}}
	e, err := newSSEEmitter(httptest.NewRecorder())
	require.NoError(t, err)

	s := newStreamSession(coze.NewEventStream(body), e, testTranslator())
	require.NoError(t, s.run(context.Background()))
	require.Equal(t, "conv_1", s.conversationID)
	require.Equal(t, stateError, s.terminal)
}
