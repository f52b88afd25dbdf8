package transport

import (
	"bytes"
)

// FrameParser 定义了一个从字节流中提取完整帧的函数类型。
// 它返回：
//   - frame: 抽取出的完整帧（若数据不足以组成完整帧则返回 nil）
//   - rest: 余下未处理的字节（用于下一次解析时继续累积）
//   - err:  解析出错时的错误（此时应丢弃整个缓冲区）
type FrameParser func(buf []byte) (frame []byte, rest []byte, err error)

// PromptParser 以提示符作为帧尾：返回提示符之前的全部字节，提示符本身被消费。
func PromptParser(prompt string) FrameParser {
	delim := []byte(prompt)
	return func(buf []byte) ([]byte, []byte, error) {
		i := bytes.Index(buf, delim)
		if i < 0 {
			// 尚未出现提示符，保留全部数据
			return nil, buf, nil
		}
		frame := make([]byte, i)
		copy(frame, buf[:i])
		return frame, buf[i+len(delim):], nil
	}
}
