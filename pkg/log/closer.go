package log

import (
	"errors"
	"io"
)

// multiCloser 여러 io.Closer를 하나로 묶어 일괄 해제하는 Closer 구현체입니다.
// 일부 Closer에서 에러가 발생하더라도 나머지 Closer의 해제를 계속 진행합니다.
type multiCloser struct {
	closers []io.Closer
}

func newMultiCloser(closers []io.Closer) *multiCloser {
	return &multiCloser{closers: closers}
}

func (m *multiCloser) Close() error {
	var errs []error
	for _, c := range m.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
