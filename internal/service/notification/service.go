package notification

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/market-watcher/internal/config"
	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
	"github.com/darkkaiser/market-watcher/internal/service/notification/notifier/telegram"
	applog "github.com/darkkaiser/market-watcher/pkg/log"
	"golang.org/x/time/rate"
)

// component Notification 서비스의 로깅용 컴포넌트 이름
const component = "notification.service"

// Service 변경 내역 다이제스트를 설정된 발송 대상들에게 전달하는 서비스입니다.
//
// 발송 순서는 설정 파일의 대상 목록 순서를 따르며, 연속된 전송 사이에는
// 설정된 대기 시간(SendDelay)이 적용됩니다 (첫 번째 전송 앞에는 적용되지 않음).
type Service struct {
	telegramConfigs []config.TelegramConfig

	sendDelay time.Duration

	// notifiers 봇 식별자 → Notifier 매핑. Start()에서 구성됩니다.
	notifiers map[string]Notifier

	directory *Directory

	destinations *destinationRegistry

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Notification 서비스 인스턴스를 생성합니다.
// 실제 봇 연결은 Start() 시점에 수행됩니다.
func NewService(appConfig *config.AppConfig) *Service {
	return &Service{
		telegramConfigs: appConfig.Notifiers.Telegrams,

		sendDelay: appConfig.Market.SendDelay(),

		notifiers: make(map[string]Notifier),

		directory: NewDirectory(appConfig.Market.Assignments),

		destinations: newDestinationRegistry(appConfig.Market.Destinations),
	}
}

// Destinations 모든 발송 대상의 현재 상태를 반환합니다. 조회 API에서 사용됩니다.
func (s *Service) Destinations() []DestinationView {
	return s.destinations.snapshot()
}

// SetDestinationEnabled 지정된 발송 대상의 수신 동의 상태를 변경합니다.
// 변경은 진행 중인 발송에는 영향을 주지 않고 다음 사이클부터 반영됩니다.
func (s *Service) SetDestinationEnabled(id string, enabled bool) error {
	return s.destinations.setEnabled(id, enabled)
}

// Start 설정된 봇들을 연결하고 서비스를 시작합니다.
// 하나의 봇이라도 연결에 실패하면 서비스 시작이 실패합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Notification 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Notification 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	for _, telegramConfig := range s.telegramConfigs {
		notifier, err := telegram.New(telegramConfig)
		if err != nil {
			serviceStopWG.Done()
			return apperrors.Wrapf(err, apperrors.Unavailable, "텔레그램 봇('%s') 연결에 실패했습니다", telegramConfig.ID)
		}

		s.notifiers[notifier.ID()] = notifier

		applog.WithComponentAndFields(component, applog.Fields{
			"notifier_id": notifier.ID(),
			"platform":    notifier.Platform(),
		}).Info("봇 연결 완료")
	}

	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"notifiers":    len(s.notifiers),
		"destinations": len(s.destinations.snapshot()),
		"send_delay":   s.sendDelay.String(),
	}).Info("서비스 시작 완료: Notification 서비스가 정상적으로 초기화되었습니다")

	// 종료 신호 대기 (고루틴)
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 서비스를 중지하고 연결된 봇들을 해제합니다.
func (s *Service) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Notification 서비스 중지 시그널을 수신했습니다")

	s.notifiers = make(map[string]Notifier)
	s.running = false

	applog.WithComponent(component).Info("Notification 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// Dispatch 다이제스트를 수신 동의 상태인 모든 발송 대상에게 순서대로 전달합니다.
//
// 각 대상에 대한 전달 시도는 독립적인 결과(Sent/Skipped/Failed)로 집계되며,
// 어떤 실패도 나머지 대상의 발송을 중단시키거나 호출자에게 전파되지 않습니다.
// 연속된 전송 사이에는 sendDelay만큼 대기하여 발송 속도를 제한합니다.
func (s *Service) Dispatch(ctx context.Context, digest string) {
	destinations := s.destinations.enabled()
	if len(destinations) == 0 {
		applog.WithComponent(component).Debug("발송 대상 없음: 다이제스트 발송을 건너뜁니다")
		return
	}

	// 발송 도중 서비스 종료로 notifiers 맵이 교체되어도 안전하도록 현재 상태를 복사해 둡니다.
	s.runningMu.Lock()
	notifiers := make(map[string]Notifier, len(s.notifiers))
	for id, notifier := range s.notifiers {
		notifiers[id] = notifier
	}
	s.runningMu.Unlock()

	// 토큰 버킷(burst 1)으로 발송 간격을 제한합니다.
	// 최초 전송은 보유 토큰으로 즉시 수행되고, 이후 전송마다 sendDelay씩 대기합니다.
	// sendDelay가 0이면 rate.Every(0) == rate.Inf 이므로 대기가 발생하지 않습니다.
	limiter := rate.NewLimiter(rate.Every(s.sendDelay), 1)

	outcomes := make([]DeliveryOutcome, 0, len(destinations))
	for _, destination := range destinations {
		outcomes = append(outcomes, s.deliver(ctx, notifiers, limiter, destination, digest))
	}

	s.logOutcomes(outcomes)
}

// deliver 단일 발송 대상에 대한 전달을 시도하고 결과를 반환합니다.
func (s *Service) deliver(ctx context.Context, notifiers map[string]Notifier, limiter *rate.Limiter, destination config.DestinationConfig, digest string) DeliveryOutcome {
	selfID := destination.SelfID
	guildID := destination.GuildID

	// 봇 식별자가 비어있으면 배정표에서 동적으로 해석합니다.
	if selfID == "" {
		assignee, assignedGuildID, ok := s.directory.ResolveAssignee(destination.Platform, destination.ChannelID)
		if !ok {
			return DeliveryOutcome{
				DestinationID: destination.ID,
				Status:        DeliverySkipped,
				Reason:        "배정된 봇이 없습니다",
			}
		}

		selfID = assignee
		if guildID == "" {
			guildID = assignedGuildID
		}
	}

	// 해당 플랫폼에 접속 중인 봇이 없으면 조용히 건너뜁니다.
	notifier, connected := notifiers[selfID]
	if !connected || notifier.Platform() != destination.Platform {
		return DeliveryOutcome{
			DestinationID: destination.ID,
			Status:        DeliverySkipped,
			Reason:        "접속 중인 봇이 없습니다",
		}
	}

	// 발송 간격 제한: 실제 전송 직전에만 대기를 수행하여,
	// 건너뛴 대상이 불필요한 대기를 유발하지 않도록 합니다.
	if err := limiter.Wait(ctx); err != nil {
		return DeliveryOutcome{
			DestinationID: destination.ID,
			Status:        DeliveryFailed,
			Reason:        err.Error(),
		}
	}

	if err := notifier.Send(ctx, destination.ChannelID, guildID, digest); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"destination_id": destination.ID,
			"notifier_id":    selfID,
			"channel_id":     destination.ChannelID,
			"error":          err,
		}).Error("다이제스트 전송 실패: 나머지 대상에 대한 발송은 계속 진행됩니다")

		return DeliveryOutcome{
			DestinationID: destination.ID,
			Status:        DeliveryFailed,
			Reason:        err.Error(),
		}
	}

	return DeliveryOutcome{
		DestinationID: destination.ID,
		Status:        DeliverySent,
	}
}

// logOutcomes 발송 결과를 집계하여 요약 로그를 남깁니다.
func (s *Service) logOutcomes(outcomes []DeliveryOutcome) {
	var sent, skipped, failed int
	for _, outcome := range outcomes {
		switch outcome.Status {
		case DeliverySent:
			sent++
		case DeliverySkipped:
			skipped++
		case DeliveryFailed:
			failed++
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"total":   len(outcomes),
		"sent":    sent,
		"skipped": skipped,
		"failed":  failed,
	}).Info("다이제스트 발송 완료")
}
