package errors

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 분류할 수 없는 에러 (기본값, 사용 지양)
	Unknown ErrorType = iota

	// Internal 애플리케이션 내부 로직 오류 (버그로 간주)
	Internal

	// System 시스템 또는 인프라 수준의 장애 (디스크, 네트워크 등)
	System

	// InvalidInput 입력값 검증 실패 (설정 파일 오류 등)
	InvalidInput

	// Conflict 리소스 충돌 또는 상태 불일치 (중복 등록 등)
	Conflict

	// NotFound 요청한 리소스를 찾을 수 없음
	NotFound

	// ExecutionFailed 비즈니스 로직 또는 외부 호출 실행 실패
	ExecutionFailed

	// ParsingFailed 데이터 파싱, 변환, 디코딩 실패
	ParsingFailed

	// Timeout 작업 시간 초과
	Timeout

	// Unavailable 외부 서비스 일시적 사용 불가
	Unavailable
)

// String ErrorType의 문자열 표현을 반환합니다.
func (t ErrorType) String() string {
	switch t {
	case Internal:
		return "Internal"
	case System:
		return "System"
	case InvalidInput:
		return "InvalidInput"
	case Conflict:
		return "Conflict"
	case NotFound:
		return "NotFound"
	case ExecutionFailed:
		return "ExecutionFailed"
	case ParsingFailed:
		return "ParsingFailed"
	case Timeout:
		return "Timeout"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}
