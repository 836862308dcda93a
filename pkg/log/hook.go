package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// levelFileHook 특정 레벨의 로그만 골라 별도의 Writer로 복제 기록하는 logrus Hook입니다.
type levelFileHook struct {
	writer    io.Writer
	levels    []Level
	formatter logrus.Formatter
}

func newLevelFileHook(w io.Writer, levels []Level) *levelFileHook {
	return &levelFileHook{
		writer: w,
		levels: levels,

		// Hook은 전역 Formatter와 독립적으로 직렬화를 수행합니다.
		// 전역 설정 변경이 분리 파일의 포맷에 영향을 주지 않도록 자체 인스턴스를 유지합니다.
		formatter: &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
		},
	}
}

func (h *levelFileHook) Levels() []Level {
	return h.levels
}

func (h *levelFileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = h.writer.Write(line)
	return err
}
