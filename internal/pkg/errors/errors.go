// Package errors provides error types, handling utilities, and retry logic for GitQuill.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrorCode represents the category of an error.
type ErrorCode int

// Configuration errors, detected eagerly before any side effect.
const (
	ErrMissingAPIKey ErrorCode = iota + 100
	ErrMissingTool
	ErrInvalidConfig
	ErrInvalidArguments
)

// Git errors.
const (
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrCommitFailed
	ErrAmendFailed
	ErrPushFailed
	ErrFileSystemError
)

// Generation errors.
const (
	ErrNetworkError ErrorCode = iota + 300
	ErrAPIStatus
	ErrBadResponseShape
	ErrRateLimited
	ErrTimeout
	ErrGenerationExhausted
	ErrUnparsableResponse
)

// ExitCode returns the process exit code for an error code.
// Every failure exits 1; success paths never carry an ErrorCode.
func (c ErrorCode) ExitCode() int {
	return 1
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrMissingAPIKey:
		return "MissingAPIKey"
	case ErrMissingTool:
		return "MissingTool"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrCommitFailed:
		return "CommitFailed"
	case ErrAmendFailed:
		return "AmendFailed"
	case ErrPushFailed:
		return "PushFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrNetworkError:
		return "NetworkError"
	case ErrAPIStatus:
		return "APIStatus"
	case ErrBadResponseShape:
		return "BadResponseShape"
	case ErrRateLimited:
		return "RateLimited"
	case ErrTimeout:
		return "Timeout"
	case ErrGenerationExhausted:
		return "GenerationExhausted"
	case ErrUnparsableResponse:
		return "UnparsableResponse"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
	RetryAfter time.Duration // For rate limit errors
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if another delivery attempt may succeed.
// Transport failures, error statuses, and malformed response envelopes
// are all retryable; an empty message extracted from a well-formed
// response is not.
func (e *AppError) IsRetryable() bool {
	switch e.Code {
	case ErrNetworkError, ErrAPIStatus, ErrBadResponseShape, ErrRateLimited, ErrTimeout:
		return true
	default:
		return false
	}
}

// GetRetryAfter returns the duration to wait before retrying.
func (e *AppError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return e.RetryAfter
	}
	return 0
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// RetryableError is an interface for errors that can be retried.
type RetryableError interface {
	error
	IsRetryable() bool
	GetRetryAfter() time.Duration
}

// Ensure AppError implements RetryableError
var _ RetryableError = (*AppError)(nil)

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var retryable RetryableError
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetRetryAfter returns the retry-after duration for an error.
func GetRetryAfter(err error) time.Duration {
	var retryable RetryableError
	if errors.As(err, &retryable) {
		return retryable.GetRetryAfter()
	}
	return 0
}

// Common error constructors with suggestions

// NewMissingAPIKeyError creates an error for a missing credential.
func NewMissingAPIKeyError() *AppError {
	return &AppError{
		Code:       ErrMissingAPIKey,
		Message:    "GEMINI_API_KEY is not set",
		Suggestion: "Export GEMINI_API_KEY or add it to a .env file in the repository root",
	}
}

// NewMissingToolError creates an error for a required external tool absent from PATH.
func NewMissingToolError(tool string) *AppError {
	return &AppError{
		Code:       ErrMissingTool,
		Message:    fmt.Sprintf("required tool %q not found on PATH", tool),
		Suggestion: fmt.Sprintf("Install %s and make sure it is on your PATH", tool),
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'gitquill config init' to create a valid configuration file",
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewCommitFailedError creates an error for a failed git commit.
func NewCommitFailedError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrCommitFailed,
		Message: "git commit failed",
		Cause:   err,
	}
	if output != "" {
		appErr.WithContext("output", strings.TrimSpace(output))
	}
	return appErr
}

// NewAmendFailedError creates an error for a failed amend of the last commit.
func NewAmendFailedError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrAmendFailed,
		Message: "failed to amend last commit",
		Cause:   err,
	}
	if output != "" {
		appErr.WithContext("output", strings.TrimSpace(output))
	}
	return appErr
}

// NewPushFailedError creates an error for a rejected or failed push.
// The commit created earlier in the run remains in place.
func NewPushFailedError(err error, output string) *AppError {
	appErr := &AppError{
		Code:       ErrPushFailed,
		Message:    "push failed; the commit was created and remains local",
		Cause:      err,
		Suggestion: "Resolve the push problem (e.g. 'git pull --rebase') and push manually",
	}
	if output != "" {
		appErr.WithContext("output", strings.TrimSpace(output))
	}
	return appErr
}

// NewFileSystemError creates an error for a failed file operation.
func NewFileSystemError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrFileSystemError,
		Message: fmt.Sprintf("file operation failed on %s", path),
		Cause:   err,
	}
}

// NewNetworkError creates an error for network failures.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:       ErrNetworkError,
		Message:    "network error occurred",
		Cause:      err,
		Suggestion: "Please check your network connection and try again",
	}
}

// NewAPIStatusError creates an error for a non-2xx API response.
func NewAPIStatusError(statusCode int, body string) *AppError {
	appErr := &AppError{
		Code:    ErrAPIStatus,
		Message: fmt.Sprintf("API returned status %d", statusCode),
	}
	if body != "" {
		appErr.WithContext("body", strings.TrimSpace(body))
	}
	return appErr
}

// NewBadResponseShapeError creates an error for a response that is missing
// the expected candidate text, or is not valid JSON at all.
func NewBadResponseShapeError(err error) *AppError {
	return &AppError{
		Code:    ErrBadResponseShape,
		Message: "API response did not contain generated text",
		Cause:   err,
	}
}

// NewRateLimitError creates an error for rate limiting.
func NewRateLimitError(retryAfter time.Duration) *AppError {
	suggestion := "Please wait and try again later"
	if retryAfter > 0 {
		suggestion = fmt.Sprintf("Please wait %v and try again", retryAfter)
	}
	return &AppError{
		Code:       ErrRateLimited,
		Message:    "rate limit exceeded",
		RetryAfter: retryAfter,
		Suggestion: suggestion,
	}
}

// NewTimeoutError creates an error for timeouts.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:       ErrTimeout,
		Message:    "request timed out",
		Cause:      err,
		Suggestion: "Please check your network connection or try again later",
	}
}

// NewGenerationExhaustedError creates an error for a generation that never
// produced a usable response within the retry budget.
func NewGenerationExhaustedError(attempts int, lastErr error) *AppError {
	return &AppError{
		Code:       ErrGenerationExhausted,
		Message:    fmt.Sprintf("message generation failed after %d attempts", attempts),
		Cause:      lastErr,
		Suggestion: "Check your network connection and API key, then try again",
	}
}

// NewUnparsableResponseError creates an error for a delivered response whose
// extracted commit message was empty. Not retryable: an empty message from a
// well-formed response points at the content, not the transport.
func NewUnparsableResponseError() *AppError {
	return &AppError{
		Code:    ErrUnparsableResponse,
		Message: "API response contained no usable commit message",
	}
}

// ParseRetryAfterHeader parses the Retry-After header value.
// It handles both seconds (integer) and HTTP-date formats.
func ParseRetryAfterHeader(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		duration := time.Until(t)
		if duration > 0 {
			return duration
		}
	}

	return 0
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
// API keys and other sensitive data are automatically masked.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}

		if appErr.RetryAfter > 0 {
			sb.WriteString(fmt.Sprintf("  Retry after: %v\n", appErr.RetryAfter))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	errMsg := SanitizeErrorMessage(err.Error())
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, errMsg))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, func(match string) string {
		if len(match) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(match)-4) + match[len(match)-4:]
	})
}

// apiKeyPattern matches Google API key material (AIza prefix) so keys that
// leak into URL-bearing error text are masked before display.
var apiKeyPattern = regexp.MustCompile(`AIza[a-zA-Z0-9_-]{10,}`)
