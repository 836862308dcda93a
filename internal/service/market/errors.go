package market

import (
	apperrors "github.com/darkkaiser/market-watcher/internal/pkg/errors"
)

var (
	// ErrDispatcherNotInitialized 다이제스트 발송기가 주입되지 않은 상태로 서비스를 시작하려 할 때 반환됩니다.
	ErrDispatcherNotInitialized = apperrors.New(apperrors.Internal, "다이제스트 발송기(DigestDispatcher)가 초기화되지 않았습니다")
)
