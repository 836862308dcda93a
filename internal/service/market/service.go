package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/darkkaiser/market-watcher/internal/config"
	"github.com/darkkaiser/market-watcher/internal/service/market/fetcher"
	"github.com/darkkaiser/market-watcher/pkg/cronx"
	applog "github.com/darkkaiser/market-watcher/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Market 서비스의 로깅용 컴포넌트 이름
const component = "market.service"

// DigestDispatcher 생성된 변경 내역 다이제스트를 발송 대상들에게 전달하는 인터페이스입니다.
// 발송 실패는 Dispatch 내부에서 흡수되며 폴링 사이클로 전파되지 않습니다.
type DigestDispatcher interface {
	Dispatch(ctx context.Context, digest string)
}

// Service 플러그인 마켓 카탈로그를 주기적으로 폴링하여 변경 내역을 감지하고
// 다이제스트를 발송하는 핵심 서비스입니다.
//
// 한 사이클은 조회 → 비교 → 스냅샷 교체 → 발송 순으로 진행됩니다.
// 사이클의 총 소요 시간이 폴링 주기를 초과하면 다음 사이클은 건너뜁니다(SkipIfStillRunning).
type Service struct {
	marketConfig config.MarketConfig

	fetcher fetcher.Fetcher

	store *Store

	dispatcher DigestDispatcher

	cron *cron.Cron

	// seedWG 스케줄 밖에서 수행되는 최초 조회(Seed) 고루틴의 종료 대기용
	seedWG sync.WaitGroup

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Market 서비스 인스턴스를 생성합니다.
// HTTP 클라이언트는 응답 크기 제한 → 상태 코드 검사 → 재시도 순의 미들웨어 체인으로 구성됩니다.
func NewService(appConfig *config.AppConfig, dispatcher DigestDispatcher) *Service {
	httpFetcher := fetcher.NewRetryFetcher(
		fetcher.NewStatusCodeFetcher(
			fetcher.NewMaxBytesFetcher(fetcher.NewHTTPFetcher(), 0),
		),
		appConfig.HTTPRetry.MaxRetries,
		appConfig.HTTPRetry.Delay(),
	)

	return &Service{
		marketConfig: appConfig.Market,

		fetcher: httpFetcher,

		store: NewStore(),

		dispatcher: dispatcher,
	}
}

// Store 현재 스냅샷 저장소를 반환합니다. 조회 API에서 읽기 전용으로 사용됩니다.
func (s *Service) Store() *Store {
	return s.store
}

// renderPolicy 설정 파일의 표시 정책을 렌더링 정책으로 변환합니다.
func (s *Service) renderPolicy() RenderPolicy {
	return RenderPolicy{
		ShowDeletions:   s.marketConfig.ShowDeletions,
		ShowPublisher:   s.marketConfig.ShowPublisher,
		ShowDescription: s.marketConfig.ShowDescription,
		Locale:          s.marketConfig.Locale,
	}
}

// Start 폴링 스케줄을 등록하고 서비스를 시작합니다.
//
// 시작 직후 스냅샷 저장소를 채우기 위한 최초 조회(Seed)를 비동기로 1회 수행하며,
// 이 조회에서는 비교와 발송을 수행하지 않습니다. 이후 설정된 주기마다 사이클이 반복됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Market 서비스 초기화 프로세스를 시작합니다")

	if s.dispatcher == nil {
		serviceStopWG.Done()
		return ErrDispatcherNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Market 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// Cron 엔진 초기화
	// - Recover: 사이클 실행 중 Panic 발생 시 복구하여 다음 스케줄에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 사이클이 끝나지 않았으면 다음 사이클을 건너뜀 (사이클 중첩 방지)
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.marketConfig.Interval()), func() {
		s.runCycle(serviceStopCtx)
	}); err != nil {
		s.cron = nil
		serviceStopWG.Done()
		return err
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"endpoint": s.marketConfig.Endpoint,
		"interval": s.marketConfig.Interval().String(),
	}).Info("서비스 시작 완료: Market 서비스가 정상적으로 초기화되었습니다")

	// 최초 조회(Seed)는 폴링 주기를 기다리지 않고 즉시 수행합니다.
	// 저장소가 비어있으므로 runCycle() 내부에서 비교/발송 없이 스냅샷만 채워집니다.
	s.seedWG.Add(1)
	go func() {
		defer s.seedWG.Done()

		s.runCycle(serviceStopCtx)
	}()

	// 종료 신호 대기 (고루틴)
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 폴링 스케줄을 안전하게 중지합니다.
// 진행 중인 사이클이 있으면 자연스럽게 끝날 때까지 대기합니다.
func (s *Service) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Market 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	// Cron 스케줄 밖에서 수행된 Seed 사이클까지 모두 끝난 뒤에 반환합니다.
	s.seedWG.Wait()

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Market 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// runCycle 한 번의 폴링 사이클(조회 → 비교 → 스냅샷 교체 → 발송)을 수행합니다.
//
// 사이클 내에서 발생하는 모든 에러는 로그로 흡수되며 호출자에게 전파되지 않습니다.
// 조회 실패 시 기존 스냅샷은 유지되고 해당 사이클만 중단됩니다.
func (s *Service) runCycle(ctx context.Context) {
	cur, err := FetchCatalog(ctx, s.fetcher, s.marketConfig.Endpoint, s.marketConfig.IncludeHidden)
	if err != nil {
		// 조회 실패: 이번 사이클은 다이제스트 없이 종료. 다음 스케줄에서 재시도됩니다.
		applog.WithComponentAndFields(component, applog.Fields{
			"endpoint": s.marketConfig.Endpoint,
			"error":    err,
		}).Error("카탈로그 조회 실패: 이번 사이클을 중단합니다")
		return
	}

	// 스냅샷 교체는 변경 사항 유무와 관계없이 성공한 사이클마다 정확히 1회 수행됩니다.
	prev, hadPrev := s.store.Replace(cur)
	if !hadPrev {
		// 최초 조회(Seed): 비교 기준이 없으므로 저장만 하고 종료합니다.
		// 시작 직후의 Seed 조회가 실패한 경우에도, 이후 처음으로 성공한 사이클이 Seed 역할을 대신합니다.
		applog.WithComponentAndFields(component, applog.Fields{
			"entries": len(cur),
		}).Info("최초 스냅샷 확보 완료: 다음 사이클부터 변경 내역을 감지합니다")
		return
	}

	lines := DiffChangeLines(prev, cur, s.renderPolicy())
	if len(lines) == 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"entries": len(cur),
		}).Debug("변경 내역 없음: 다이제스트를 발송하지 않습니다")
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"changes": len(lines),
		"entries": len(cur),
	}).Info("카탈로그 변경 감지: 다이제스트 발송을 시작합니다")

	s.dispatcher.Dispatch(ctx, ComposeDigest(lines))
}
