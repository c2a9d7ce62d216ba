package coze

import (
	"context"
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
)

const readChunkSize = 4 << 10

// EventStream 是拉取式的上游事件迭代器：每次 Next 只在需要更多数据时读取一次 body。
//
// 上游连接关闭时，尚未以 \n 结束的最后一行也会被解析（flush-on-close）。
type EventStream struct {
	body    io.Reader
	closer  io.Closer
	lines   *LineBuffer
	buf     []byte
	queue   []string
	err     error
	skipped int
}

// NewEventStream 从 body 读取上游 SSE。body 实现 io.Closer 时由 Close 负责关闭。
func NewEventStream(body io.Reader) *EventStream {
	s := &EventStream{
		body:  body,
		lines: NewLineBuffer(MaxLineBytes),
		buf:   make([]byte, readChunkSize),
	}
	if c, ok := body.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next 返回下一个成功解码的事件。上游正常结束返回 io.EOF；
// 读取失败、行过长或 ParseFatal 返回对应错误。非事件行会被跳过并记录日志。
func (s *EventStream) Next(ctx context.Context) (Event, error) {
	for {
		for len(s.queue) > 0 {
			line := s.queue[0]
			s.queue = s.queue[1:]

			res := ParseLine(line)
			switch res.Kind {
			case ParseOK:
				return res.Event, nil
			case ParseFatal:
				s.queue = nil
				s.err = res.Err
				return Event{}, res.Err
			default:
				if res.Reason != "" && line != "" {
					s.skipped++
					log.WithFields(log.Fields{
						"reason": res.Reason,
						"line":   truncate(line, 128),
					}).Debug("coze: skip sse line")
				}
			}
		}

		if s.err != nil {
			return Event{}, s.err
		}
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}

		n, err := s.body.Read(s.buf)
		if n > 0 {
			lines, feedErr := s.lines.Feed(s.buf[:n])
			s.queue = append(s.queue, lines...)
			if feedErr != nil {
				s.err = feedErr
				continue
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if tail, ok := s.lines.Flush(); ok {
					s.queue = append(s.queue, tail)
				}
				s.err = io.EOF
				continue
			}
			s.err = err
		}
	}
}

// Skipped 返回目前为止被忽略的非空行数量。
func (s *EventStream) Skipped() int {
	return s.skipped
}

// Close 关闭底层 body。
func (s *EventStream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
