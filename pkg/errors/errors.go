// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 構造化されたエラー情報とスタックトレースを提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("goml-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotTrainedError is returned when an operation that requires a trained
// model is invoked on one that has no trained state.
type NotTrainedError struct {
	ModelName string
	Method    string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("goml: %s: this model has not been trained yet. Call Train() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotTrainedError")
}

// NewNotTrainedError は新しいNotTrainedErrorを作成し、スタックトレースを付与します。
func NewNotTrainedError(modelName, method string) error {
	err := &NotTrainedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// InvalidArgumentError is returned when a caller supplies a value that fails
// validation at train or combine time: unlabeled ground truth, a label order
// that is not a total ordering of the training domain, a weight vector whose
// length does not match the number of predictions, and so on.
type InvalidArgumentError struct {
	Op     string
	Reason string
	Value  interface{}
}

func (e *InvalidArgumentError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("goml: %s: %s (got: %v)", e.Op, e.Reason, e.Value)
	}
	return fmt.Sprintf("goml: %s: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidArgumentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "InvalidArgumentError")
}

// NewInvalidArgumentError は新しいInvalidArgumentErrorを作成し、スタックトレースを付与します。
func NewInvalidArgumentError(op, reason string, value interface{}) error {
	err := &InvalidArgumentError{Op: op, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// IllegalStateError is returned when two components are combined in a way
// that can never work, regardless of the input data. The canonical case is
// wrapping a chain trainer around a hashed feature domain: chain feature
// names must stay addressable, which hashing destroys. There is no recovery
// path; the pipeline has to be reconfigured.
type IllegalStateError struct {
	Op     string
	Reason string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("goml: %s: illegal state: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IllegalStateError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "IllegalStateError")
}

// NewIllegalStateError は新しいIllegalStateErrorを作成し、スタックトレースを付与します。
func NewIllegalStateError(op, reason string) error {
	err := &IllegalStateError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// ImmutableViolationError is returned when a caller attempts a structural
// mutation (sort, remove, densify) on a view that shares feature storage
// with another example. Appending and relabeling are the only permitted
// mutations on such views; everything else fails fast rather than silently
// corrupting the shared example.
type ImmutableViolationError struct {
	Op   string
	View string
}

func (e *ImmutableViolationError) Error() string {
	return fmt.Sprintf("goml: %s: %s shares its feature storage and cannot be structurally mutated", e.Op, e.View)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ImmutableViolationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("view", e.View).
		Str("type", "ImmutableViolationError")
}

// NewImmutableViolationError は新しいImmutableViolationErrorを作成し、スタックトレースを付与します。
func NewImmutableViolationError(op, view string) error {
	err := &ImmutableViolationError{Op: op, View: view}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("goml: %s: dimension mismatch. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing epochs or adjusting the learning rate.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// UnobservedLabelWarning is raised when a binary decomposition produces a
// sub-dataset where one side of the split never occurs (a label present in
// every example, or in none). Training proceeds; the resulting sub-model is
// degenerate but well defined.
type UnobservedLabelWarning struct {
	Label string
	Side  string
}

func (w *UnobservedLabelWarning) Error() string {
	return fmt.Sprintf("binary decomposition for label %q observed no %s examples", w.Label, w.Side)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UnobservedLabelWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("label", w.Label).
		Str("side", w.Side).
		Str("type", "UnobservedLabelWarning")
}

// NewUnobservedLabelWarning は新しいUnobservedLabelWarningを作成します。
func NewUnobservedLabelWarning(label, side string) *UnobservedLabelWarning {
	return &UnobservedLabelWarning{Label: label, Side: side}
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrNotImplemented は機能が未実装の場合のエラーです。
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
