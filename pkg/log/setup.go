package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// 로그 파일이 저장될 기본 디렉토리 이름
	defaultLogDir = "logs"

	// 기본 로그 로테이션 정책
	defaultMaxSizeMB  = 100 // 로그 파일 하나당 최대 크기 (단위: MB)
	defaultMaxBackups = 20  // 로테이션된 로그 파일의 최대 보관 개수
)

var (
	// Setup() 함수의 중복 호출을 방지하기 위한 동기화 객체
	setupOnce sync.Once

	// 최초 초기화 시 생성된 Closer와 에러를 보관합니다.
	// Setup이 재호출되더라도 동일한 결과를 반환하여 일관성을 보장합니다.
	globalCloser   io.Closer
	globalSetupErr error
)

// Setup 전역 로깅 시스템을 초기화합니다.
//
// 애플리케이션 시작 시점(main 함수 도입부)에 한 번만 호출해야 하며,
// 반환된 Closer는 반드시 defer를 통해 해제되어야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setupInternal(opts)
	})

	return globalCloser, globalSetupErr
}

// setupInternal 실제 로깅 시스템 초기화 로직을 수행합니다.
func setupInternal(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ReportCaller)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			// 함수 경로가 너무 길어지지 않도록 패키지 경로를 축약합니다.
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if idx := strings.LastIndex(function, "/"); idx != -1 {
				function = function[idx+1:]
			}
			return function, ""
		},
	})

	dir := opts.Dir
	if dir == "" {
		dir = defaultLogDir
	}

	maxSizeMB := opts.MaxSizeMB
	if maxSizeMB == 0 {
		maxSizeMB = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}

	// 메인 로그 파일 (lumberjack이 디렉토리 생성과 로테이션을 담당)
	mainFile := &lumberjack.Logger{
		Filename:   filepath.Join(dir, opts.Name+".log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     opts.MaxAge,
		LocalTime:  true,
	}

	closers := []io.Closer{mainFile}

	var out io.Writer = mainFile
	if opts.EnableConsoleLog {
		out = io.MultiWriter(os.Stdout, mainFile)
	}
	logrus.SetOutput(out)

	// 치명적 로그(Error 이상)를 별도 파일로 분리 저장합니다.
	// 장애 발생 시 방대한 메인 로그를 뒤지지 않고도 원인을 추적할 수 있습니다.
	if opts.EnableCriticalLog {
		criticalFile := &lumberjack.Logger{
			Filename:   filepath.Join(dir, opts.Name+".error.log"),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     opts.MaxAge,
			LocalTime:  true,
		}

		logrus.AddHook(newLevelFileHook(criticalFile, []Level{PanicLevel, FatalLevel, ErrorLevel}))
		closers = append(closers, criticalFile)
	}

	return newMultiCloser(closers), nil
}
