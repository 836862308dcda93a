package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/market-watcher/internal/config"
	"github.com/darkkaiser/market-watcher/internal/pkg/version"
	"github.com/darkkaiser/market-watcher/internal/service"
	"github.com/darkkaiser/market-watcher/internal/service/api"
	"github.com/darkkaiser/market-watcher/internal/service/market"
	"github.com/darkkaiser/market-watcher/internal/service/notification"
	applog "github.com/darkkaiser/market-watcher/pkg/log"
	log "github.com/sirupsen/logrus"
)

const (
	banner = `
  __  __                _          _    __        __       _         _
 |  \/  |  __ _  _ __  | | __ ___ | |_  \ \      / /__ _  | |_  ___ | |__    ___  _ __
 | |\/| | / _' || '__| | |/ // _ \| __|  \ \ /\ / // _' | | __|/ __|| '_ \  / _ \| '__|
 | |  | || (_| || |    |   <|  __/| |_    \ V  V /| (_| | | |_| (__ | | | ||  __/| |
 |_|  |_| \__,_||_|    |_|\_\\___| \__|    \_/\_/  \__,_|  \__|\___||_| |_| \___||_|
                                                               %s
--------------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	configFile := flag.String("config", config.DefaultFilename, "설정 파일 경로")
	flag.Parse()

	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	// 빌드 정보 조회 (ldflags로 주입된 값)
	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	// 빌드 정보 출력
	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 설정에 대한 권고 사항을 점검하고 경고를 출력한다.
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 서비스를 생성하고 초기화한다.
	notificationService := notification.NewService(appConfig)
	marketService := market.NewService(appConfig, notificationService)

	services := []service.Service{notificationService, marketService}
	if appConfig.API.Enabled {
		services = append(services, api.NewService(appConfig, marketService.Store(), notificationService))
	}

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다.
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done
}
