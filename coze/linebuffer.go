package coze

import (
	"errors"
	"strings"
)

// MaxLineBytes 是 LineBuffer 允许保留的未结束行的默认上限。
const MaxLineBytes = 1 << 20

var ErrLineTooLong = errors.New("coze: sse line exceeds limit")

// LineBuffer 把上游任意边界的字节片段重组为以 \n 结束的完整行。
// 每个流会话独占一个 LineBuffer，不需要加锁。
type LineBuffer struct {
	pending string
	limit   int
}

// NewLineBuffer 创建 LineBuffer，limit <= 0 时使用 MaxLineBytes。
func NewLineBuffer(limit int) *LineBuffer {
	if limit <= 0 {
		limit = MaxLineBytes
	}
	return &LineBuffer{limit: limit}
}

// Feed 追加 fragment，按 \n 切分并返回所有已结束的行（不含 \n），
// 最后一个（可能为空的）片段保留到下一次调用。
//
// 保留部分超过上限时返回 ErrLineTooLong，已结束的行仍然随错误一起返回，保留部分被丢弃。
func (b *LineBuffer) Feed(fragment []byte) ([]string, error) {
	if len(fragment) == 0 {
		return nil, nil
	}
	parts := strings.Split(b.pending+string(fragment), "\n")
	b.pending = parts[len(parts)-1]
	lines := parts[:len(parts)-1]

	limit := b.limit
	if limit <= 0 {
		limit = MaxLineBytes
	}
	if len(b.pending) > limit {
		b.pending = ""
		return lines, ErrLineTooLong
	}
	return lines, nil
}

// Pending 返回尚未遇到 \n 的尾部内容。
func (b *LineBuffer) Pending() string {
	return b.pending
}

// Flush 取出并清空尾部内容，用于上游关闭连接时处理最后一行。
func (b *LineBuffer) Flush() (string, bool) {
	line := b.pending
	b.pending = ""
	return line, line != ""
}
