// Package log 애플리케이션 전역 로깅 시스템을 제공합니다.
//
// logrus를 기반으로 하며, 다음 기능을 제공합니다:
//   - 컴포넌트 단위 로깅 (WithComponent)
//   - lumberjack을 이용한 로그 파일 로테이션
//   - 치명적 로그(Error 이상)의 별도 파일 분리
//   - 운영/개발 환경별 프로파일 (NewProductionOptions / NewDevelopmentOptions)
//
// 사용 예:
//
//	closer, err := log.Setup(log.NewProductionOptions("market-watcher"))
//	if err != nil { ... }
//	defer closer.Close()
//
//	log.WithComponent("market.service").Info("서비스 시작")
package log

import (
	log "github.com/sirupsen/logrus"
)

// logrus 타입들의 별칭입니다.
// 애플리케이션 코드가 logrus를 직접 import하지 않도록 이 패키지를 경유시킵니다.
type (
	Level  = log.Level
	Fields = log.Fields
	Entry  = log.Entry
)

// 로그 레벨 상수
const (
	PanicLevel = log.PanicLevel
	FatalLevel = log.FatalLevel
	ErrorLevel = log.ErrorLevel
	WarnLevel  = log.WarnLevel
	InfoLevel  = log.InfoLevel
	DebugLevel = log.DebugLevel
	TraceLevel = log.TraceLevel
)

// StandardLogger 전역 logrus 로거 인스턴스를 반환합니다.
// 외부 라이브러리(cron 등)에 로거를 주입할 때 사용합니다.
func StandardLogger() *log.Logger {
	return log.StandardLogger()
}

// WithComponent 컴포넌트 이름이 바인딩된 로그 Entry를 반환합니다.
func WithComponent(component string) *Entry {
	return log.WithField("component", component)
}

// WithComponentAndFields 컴포넌트 이름과 추가 필드가 바인딩된 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	return log.WithField("component", component).WithFields(fields)
}

// WithError 에러가 바인딩된 로그 Entry를 반환합니다.
func WithError(err error) *Entry {
	return log.WithError(err)
}

// SetDebugMode 디버그 모드 여부에 따라 전역 로그 레벨을 조정합니다.
// 환경설정 로드 이후에 호출하여 최종 로그 레벨을 확정합니다.
func SetDebugMode(debug bool) {
	if debug {
		log.SetLevel(TraceLevel)
	} else {
		log.SetLevel(InfoLevel)
	}
}
